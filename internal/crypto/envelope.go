package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/kabylesystem/xrpl-hackaton/internal/model"

	"golang.org/x/crypto/pbkdf2"
)

// Envelope parameters. These are a wire contract with the mobile app:
// changing any of them breaks decryption of messages already in flight.
//
// The envelope is deliberately unauthenticated (CBC, no MAC) to stay
// compatible with the existing format; the seed-prefix check after
// decryption is the only integrity backstop.
const (
	pbkdf2Iterations = 100_000
	keyLen           = 32 // AES-256
	envelopeSaltLen  = 16
	ivLen            = aes.BlockSize
)

// deriveEnvelopeKey derives the AES key from password and salt via
// PBKDF2-HMAC-SHA256.
func deriveEnvelopeKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keyLen, sha256.New)
}

// EncryptEnvelope password-protects a seed for transport over the text
// channel. Output format: base64(salt):base64(iv):base64(ciphertext),
// each part fresh-random per message.
func EncryptEnvelope(seed, password string) (string, error) {
	salt := make([]byte, envelopeSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	iv := make([]byte, ivLen)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	key := deriveEnvelopeKey(password, salt)
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := pkcs7Pad([]byte(seed))
	defer clear(plaintext)

	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, plaintext)

	return strings.Join([]string{
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(iv),
		base64.StdEncoding.EncodeToString(ciphertext),
	}, ":"), nil
}

// DecryptEnvelope recovers the seed from an envelope. Every failure mode
// (malformed envelope, bad padding, recovered text that doesn't carry
// expectedSeedPrefix) comes back as a CryptoError so callers can surface
// a single "incorrect password" without leaking which check failed.
func DecryptEnvelope(envelope, password, expectedSeedPrefix string) (string, error) {
	parts := strings.Split(strings.TrimSpace(envelope), ":")
	if len(parts) != 3 {
		return "", &model.CryptoError{Message: "malformed envelope"}
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", &model.CryptoError{Message: "malformed envelope"}
	}
	iv, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", &model.CryptoError{Message: "malformed envelope"}
	}
	ciphertext, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return "", &model.CryptoError{Message: "malformed envelope"}
	}
	if len(iv) != ivLen || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", &model.CryptoError{Message: "malformed envelope"}
	}

	key := deriveEnvelopeKey(password, salt)
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	defer clear(plaintext)

	unpadded, err := pkcs7Unpad(plaintext)
	if err != nil {
		return "", &model.CryptoError{Message: "incorrect password"}
	}

	seed := string(unpadded)
	if expectedSeedPrefix != "" && !strings.HasPrefix(seed, expectedSeedPrefix) {
		// Wrong-password detection backstop: CBC alone gives no
		// authentication, so garbage that happens to unpad cleanly is
		// caught here.
		return "", &model.CryptoError{Message: "incorrect password"}
	}
	return seed, nil
}

// pkcs7Pad pads to a whole number of AES blocks.
func pkcs7Pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	out := make([]byte, 0, len(b)+n)
	out = append(out, b...)
	for i := 0; i < n; i++ {
		out = append(out, byte(n))
	}
	return out
}

// pkcs7Unpad validates and strips padding.
func pkcs7Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 || len(b)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("invalid padded length")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return b[:len(b)-n], nil
}

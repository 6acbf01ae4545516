package xrp

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160"
)

const (
	// SeedPrefix is the textual prefix of every Ed25519 family seed.
	// A decrypted envelope that doesn't start with it cannot be a seed.
	SeedPrefix = "sEd"

	seedEntropyLen = 16
	accountIDLen   = 20
)

// XRPL uses its own base58 dictionary, not the Bitcoin one.
var xrplAlphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

// Version prefixes for base58check payloads.
var (
	ed25519SeedPrefix = []byte{0x01, 0xE1, 0x4B} // renders as "sEd"
	accountIDPrefix   = []byte{0x00}             // renders as "r"
)

// checksum is the first four bytes of a double SHA-256.
func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:4]
}

// encodeBase58Check prepends the version prefix, appends the checksum and
// encodes with the XRPL alphabet.
func encodeBase58Check(prefix, body []byte) string {
	payload := make([]byte, 0, len(prefix)+len(body)+4)
	payload = append(payload, prefix...)
	payload = append(payload, body...)
	payload = append(payload, checksum(payload)...)
	return base58.EncodeAlphabet(payload, xrplAlphabet)
}

// decodeBase58Check decodes, verifies the checksum and strips the expected
// version prefix.
func decodeBase58Check(s string, prefix []byte, bodyLen int) ([]byte, error) {
	payload, err := base58.DecodeAlphabet(s, xrplAlphabet)
	if err != nil {
		return nil, fmt.Errorf("invalid base58: %w", err)
	}
	if len(payload) != len(prefix)+bodyLen+4 {
		return nil, fmt.Errorf("unexpected payload length %d", len(payload))
	}
	body := payload[:len(payload)-4]
	if !bytes.Equal(checksum(body), payload[len(payload)-4:]) {
		return nil, fmt.Errorf("checksum mismatch")
	}
	if !bytes.Equal(body[:len(prefix)], prefix) {
		return nil, fmt.Errorf("unexpected version prefix")
	}
	return body[len(prefix):], nil
}

// GenerateSeed returns a fresh random Ed25519 family seed (sEd...).
func GenerateSeed() (string, error) {
	entropy := make([]byte, seedEntropyLen)
	if _, err := io.ReadFull(rand.Reader, entropy); err != nil {
		return "", fmt.Errorf("failed to generate seed entropy: %w", err)
	}
	defer clear(entropy)
	return EncodeSeed(entropy), nil
}

// EncodeSeed encodes 16 bytes of entropy as an Ed25519 family seed.
func EncodeSeed(entropy []byte) string {
	return encodeBase58Check(ed25519SeedPrefix, entropy)
}

// DecodeSeed decodes an Ed25519 family seed back to its 16-byte entropy.
// Caller should zero the returned slice after use.
func DecodeSeed(seed string) ([]byte, error) {
	entropy, err := decodeBase58Check(seed, ed25519SeedPrefix, seedEntropyLen)
	if err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return entropy, nil
}

// EncodeAddress encodes a 20-byte account ID as a classic address (r...).
func EncodeAddress(accountID []byte) (string, error) {
	if len(accountID) != accountIDLen {
		return "", fmt.Errorf("account ID must be %d bytes, got %d", accountIDLen, len(accountID))
	}
	return encodeBase58Check(accountIDPrefix, accountID), nil
}

// DecodeAddress decodes a classic address back to its 20-byte account ID.
func DecodeAddress(address string) ([]byte, error) {
	accountID, err := decodeBase58Check(address, accountIDPrefix, accountIDLen)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}
	return accountID, nil
}

// accountIDFromPublicKey hashes the 33-byte signing key (0xED || ed25519
// public key) into a 20-byte account ID: RIPEMD160(SHA256(pub)).
func accountIDFromPublicKey(signingPubKey []byte) []byte {
	sha := sha256.Sum256(signingPubKey)
	h := ripemd160.New()
	h.Write(sha[:])
	return h.Sum(nil)
}

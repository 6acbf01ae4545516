package xrp

import (
	"crypto/ed25519"
	"crypto/sha512"
	"fmt"
	"strings"
)

// Wallet is an Ed25519 keypair derived from a family seed. The ephemeral
// wallets this protocol creates live only long enough to be enveloped on
// the sender side and reconstructed on the recipient side.
type Wallet struct {
	Seed    string
	Address string

	publicKey  ed25519.PublicKey
	privateKey ed25519.PrivateKey
}

// NewWallet generates a wallet from fresh random entropy.
func NewWallet() (*Wallet, error) {
	seed, err := GenerateSeed()
	if err != nil {
		return nil, err
	}
	return FromSeed(seed)
}

// FromSeed reconstructs a wallet from its family seed. The Ed25519 key is
// derived from the SHA-512 half of the seed entropy, matching the ledger's
// key derivation for sEd seeds.
func FromSeed(seed string) (*Wallet, error) {
	if !strings.HasPrefix(seed, SeedPrefix) {
		return nil, fmt.Errorf("not an Ed25519 family seed")
	}

	entropy, err := DecodeSeed(seed)
	if err != nil {
		return nil, err
	}
	defer clear(entropy)

	digest := sha512.Sum512(entropy)
	priv := ed25519.NewKeyFromSeed(digest[:32])
	defer clear(digest[:])

	pub := priv.Public().(ed25519.PublicKey)

	address, err := EncodeAddress(accountIDFromPublicKey(signingPubKey(pub)))
	if err != nil {
		return nil, err
	}

	return &Wallet{
		Seed:       seed,
		Address:    address,
		publicKey:  pub,
		privateKey: priv,
	}, nil
}

// signingPubKey is the 33-byte form carried in the SigningPubKey field:
// a 0xED marker byte followed by the Ed25519 public key.
func signingPubKey(pub ed25519.PublicKey) []byte {
	out := make([]byte, 0, 33)
	out = append(out, 0xED)
	out = append(out, pub...)
	return out
}

// SigningPubKey returns the wallet's 33-byte signing key.
func (w *Wallet) SigningPubKey() []byte {
	return signingPubKey(w.publicKey)
}

// Sign signs a message with the wallet's Ed25519 key.
func (w *Wallet) Sign(message []byte) []byte {
	return ed25519.Sign(w.privateKey, message)
}

// Zero wipes the private key material.
func (w *Wallet) Zero() {
	clear(w.privateKey)
}

package xrp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeedRoundTrip(t *testing.T) {
	seed, err := GenerateSeed()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(seed, SeedPrefix), "seed should start with %s: %s", SeedPrefix, seed)

	entropy, err := DecodeSeed(seed)
	require.NoError(t, err)
	require.Len(t, entropy, 16)
	require.Equal(t, seed, EncodeSeed(entropy))
}

func TestDecodeSeedRejectsCorruption(t *testing.T) {
	seed, err := GenerateSeed()
	require.NoError(t, err)

	// Flip one character in the middle.
	mid := len(seed) / 2
	flipped := seed[:mid] + string(flipChar(seed[mid])) + seed[mid+1:]

	_, err = DecodeSeed(flipped)
	require.Error(t, err)
}

func flipChar(c byte) byte {
	if c == 'r' {
		return 'p'
	}
	return 'r'
}

func TestWalletDerivationIsDeterministic(t *testing.T) {
	w1, err := NewWallet()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(w1.Address, "r"), "address should start with r: %s", w1.Address)

	w2, err := FromSeed(w1.Seed)
	require.NoError(t, err)
	require.Equal(t, w1.Address, w2.Address)
	require.Equal(t, w1.SigningPubKey(), w2.SigningPubKey())
}

func TestAddressRoundTrip(t *testing.T) {
	w, err := NewWallet()
	require.NoError(t, err)

	accountID, err := DecodeAddress(w.Address)
	require.NoError(t, err)
	require.Len(t, accountID, 20)

	address, err := EncodeAddress(accountID)
	require.NoError(t, err)
	require.Equal(t, w.Address, address)
}

func TestFromSeedRejectsNonEd25519(t *testing.T) {
	_, err := FromSeed("snoPBrXtMeMyMHUVTgbuqAfg1SUTb")
	require.Error(t, err)
}

package crypto

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kabylesystem/xrpl-hackaton/internal/model"
)

func TestWalletFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.xwt")
	data := &model.WalletData{Seed: testSeed, CreatedAt: "2026-01-15T10:00:00Z"}

	password := []byte("hunter2")
	err := EncryptWalletFile(path, "testnet", "rsGQryyR5zQ5hNm6DCrgeX6DvPQJZhEoWK", "qr-png-base64", data, password)
	require.NoError(t, err)

	xwt, decrypted, err := DecryptWalletFile(path, password)
	require.NoError(t, err)
	require.Equal(t, "testnet", xwt.Network)
	require.Equal(t, "rsGQryyR5zQ5hNm6DCrgeX6DvPQJZhEoWK", xwt.Address)
	require.Equal(t, testSeed, decrypted.Seed)

	// The address is readable without the password.
	address, err := ReadWalletAddress(path)
	require.NoError(t, err)
	require.Equal(t, xwt.Address, address)
}

func TestWalletFileWrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.xwt")
	data := &model.WalletData{Seed: testSeed}

	require.NoError(t, EncryptWalletFile(path, "testnet", "rAddr", "", data, []byte("hunter2")))

	_, _, err := DecryptWalletFile(path, []byte("wrong"))
	require.EqualError(t, err, "invalid password")
}

func TestWalletFileRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.xwt")
	data := &model.WalletData{Seed: testSeed}

	require.NoError(t, EncryptWalletFile(path, "testnet", "rAddr", "", data, []byte("hunter2")))

	err := EncryptWalletFile(path, "testnet", "rAddr", "", data, []byte("hunter2"))
	require.Error(t, err)
	require.True(t, IsFileExistsError(err))
}

func TestWalletFileRequiresExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.txt")
	err := EncryptWalletFile(path, "testnet", "rAddr", "", &model.WalletData{Seed: testSeed}, []byte("hunter2"))
	require.Error(t, err)
}

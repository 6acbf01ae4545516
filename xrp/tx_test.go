package xrp

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"
)

// Blobs produced by the mobile app against testnet: a funding payment
// and the sweep of the account it created.
const (
	fundingBlobFixture = "12000022000000002400C2F920201B00C3457E6140000000002DC6C068400000000000000C7321ED425294A1D110D59CEAC368DC07A01B6C99FA339884483A8EE4BF19317128C8ED744026143A144547ACD07E0E60E066AE799D5245F2CD8903D55B78D0F6CA08B8FB87BFAA6C2C08D39ACD33E5DB4A425DB20F24BF242A0075DD6E5D452C3D5468300F81144ADBB43B1D50FE6E2CDB3BE9B140B3A2597D079083147F8F88F94328DC66F2821DA56763096EA8A1F34A"
	sweepBlobFixture   = "1200152400000001201B00C3463A68400000000000000A7321ED227DEA27DA4F8338CB283D9D2CE93F2864B3B3A209B721A2165EF7E2F30ACBF3744013316203620E5CE3214D214A52F80F7D25AC8E4998ABA325FED622F1EABC41788CA181EB13B3B23D170CBF2C53F2A9C2D7DE45998B9930823BC3DEE74B01830C81147F8F88F94328DC66F2821DA56763096EA8A1F34A83144ADBB43B1D50FE6E2CDB3BE9B140B3A2597D0790"
)

func TestDecodeFundingBlob(t *testing.T) {
	tx, err := DecodeTx(fundingBlobFixture)
	require.NoError(t, err)

	require.Equal(t, TxTypePayment, tx.Type)
	require.NotNil(t, tx.Flags)
	require.Equal(t, uint32(0), *tx.Flags)
	require.Equal(t, uint32(12777760), tx.Sequence)
	require.Equal(t, uint32(12797310), tx.LastLedgerSequence)
	require.Equal(t, uint64(3000000), tx.AmountDrops)
	require.Equal(t, uint64(12), tx.FeeDrops)
	require.Len(t, tx.SigningPubKey, 33)
	require.Equal(t, byte(0xED), tx.SigningPubKey[0])
	require.Len(t, tx.TxnSignature, 64)
}

func TestDecodeSweepBlob(t *testing.T) {
	tx, err := DecodeTx(sweepBlobFixture)
	require.NoError(t, err)

	require.Equal(t, TxTypeAccountDelete, tx.Type)
	require.Nil(t, tx.Flags)
	require.Equal(t, uint32(1), tx.Sequence)
	require.Equal(t, uint32(12797498), tx.LastLedgerSequence)
	require.Equal(t, uint64(0), tx.AmountDrops)
	require.Equal(t, uint64(10), tx.FeeDrops)
}

func TestFundingAndSweepChain(t *testing.T) {
	funding, err := DecodeTx(fundingBlobFixture)
	require.NoError(t, err)
	sweep, err := DecodeTx(sweepBlobFixture)
	require.NoError(t, err)

	// The sweep spends the account the funding created, back-to-back.
	require.Equal(t, funding.Destination, sweep.Account)
	require.Equal(t, funding.Account, sweep.Destination)
}

func TestSignedBlobRoundTrip(t *testing.T) {
	sender, err := NewWallet()
	require.NoError(t, err)
	destination, err := NewWallet()
	require.NoError(t, err)

	flags := uint32(0)
	tx := &Transaction{
		Type:               TxTypePayment,
		Flags:              &flags,
		Sequence:           7,
		LastLedgerSequence: 1027,
		AmountDrops:        2500000,
		FeeDrops:           12,
		Account:            sender.Address,
		Destination:        destination.Address,
	}
	require.NoError(t, tx.Sign(sender))

	blob, err := tx.Blob()
	require.NoError(t, err)

	decoded, err := DecodeTx(blob)
	require.NoError(t, err)
	require.Equal(t, tx.Sequence, decoded.Sequence)
	require.Equal(t, tx.AmountDrops, decoded.AmountDrops)
	require.Equal(t, sender.Address, decoded.Account)
	require.Equal(t, destination.Address, decoded.Destination)

	// The signature must verify over the STX-prefixed unsigned payload.
	payload, err := decoded.serialize(false)
	require.NoError(t, err)
	message := append(append([]byte{}, prefixTxSign...), payload...)
	require.True(t, ed25519.Verify(decoded.SigningPubKey[1:], message, decoded.TxnSignature))

	hash, err := tx.Hash()
	require.NoError(t, err)
	require.Len(t, hash, 64)
}

func TestSignRejectsForeignAccount(t *testing.T) {
	w, err := NewWallet()
	require.NoError(t, err)
	other, err := NewWallet()
	require.NoError(t, err)

	flags := uint32(0)
	tx := &Transaction{
		Type:        TxTypePayment,
		Flags:       &flags,
		Account:     other.Address,
		Destination: w.Address,
		AmountDrops: 1,
		FeeDrops:    10,
	}
	require.Error(t, tx.Sign(w))
}

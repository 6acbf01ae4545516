package xrp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kabylesystem/xrpl-hackaton/internal/model"
)

func TestPrepareOffline(t *testing.T) {
	sender, err := NewWallet()
	require.NoError(t, err)
	destination, err := NewWallet()
	require.NoError(t, err)

	params := model.OfflineParameters{Sequence: 42, LedgerIndex: 5000, Fee: "12"}
	blob, err := PrepareOffline(sender, destination.Address, "2.5", params, "XRP")
	require.NoError(t, err)

	tx, err := DecodeTx(blob)
	require.NoError(t, err)
	require.Equal(t, TxTypePayment, tx.Type)
	require.Equal(t, uint32(42), tx.Sequence)
	require.Equal(t, uint32(5000+LedgerValidityWindow), tx.LastLedgerSequence)
	require.Equal(t, uint64(2500000), tx.AmountDrops)
	require.Equal(t, uint64(12), tx.FeeDrops)
	require.Equal(t, sender.Address, tx.Account)
	require.Equal(t, destination.Address, tx.Destination)
}

func TestPrepareOfflineValidation(t *testing.T) {
	sender, err := NewWallet()
	require.NoError(t, err)
	destination, err := NewWallet()
	require.NoError(t, err)

	good := model.OfflineParameters{Sequence: 42, LedgerIndex: 5000, Fee: "12"}

	tests := []struct {
		name     string
		amount   string
		params   model.OfflineParameters
		currency string
	}{
		{"zero amount", "0", good, "XRP"},
		{"negative amount", "-1", good, "XRP"},
		{"garbage amount", "lots", good, "XRP"},
		{"issued currency", "5", good, "USD"},
		{"missing sequence", "5", model.OfflineParameters{LedgerIndex: 5000, Fee: "12"}, "XRP"},
		{"missing ledger", "5", model.OfflineParameters{Sequence: 42, Fee: "12"}, "XRP"},
		{"zero fee", "5", model.OfflineParameters{Sequence: 42, LedgerIndex: 5000, Fee: "0"}, "XRP"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PrepareOffline(sender, destination.Address, tc.amount, tc.params, tc.currency)
			require.Error(t, err)
			require.True(t, model.IsValidationError(err), "expected validation error, got %v", err)
		})
	}
}

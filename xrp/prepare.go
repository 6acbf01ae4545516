package xrp

import (
	"context"
	"strconv"

	"github.com/kabylesystem/xrpl-hackaton/internal/model"
)

// LedgerValidityWindow is how many ledgers past the current index a
// prepared transaction stays valid (LastLedgerSequence = index + window).
// Expiry is terminal: an expired blob needs fresh parameters and a fresh
// signature, never a resubmission.
const LedgerValidityWindow = 20

// buildPayment assembles and signs a funding payment from the sender to
// the destination. No submission happens here; the result is an
// immutable signed blob.
func buildPayment(sender *Wallet, destination, amount string, sequence, ledgerIndex uint32, feeDrops uint64, currency string) (string, error) {
	if currency != "" && currency != "XRP" {
		return "", &model.ValidationError{Message: "only XRP payments are supported over this transport"}
	}

	drops, err := XRPToDrops(amount)
	if err != nil || drops == 0 {
		return "", &model.ValidationError{Message: "amount must be a positive XRP value"}
	}

	flags := uint32(0)
	tx := &Transaction{
		Type:               TxTypePayment,
		Flags:              &flags,
		Sequence:           sequence,
		LastLedgerSequence: ledgerIndex + LedgerValidityWindow,
		AmountDrops:        drops,
		FeeDrops:           feeDrops,
		Account:            sender.Address,
		Destination:        destination,
	}
	if err := tx.Sign(sender); err != nil {
		return "", &model.SigningError{Err: err}
	}
	return tx.Blob()
}

// PrepareOnline queries the ledger for the sender's current sequence, the
// base fee and the validated ledger index, then builds and signs the
// funding payment.
func PrepareOnline(ctx context.Context, ledger Ledger, sender *Wallet, destination, amount, currency string) (string, error) {
	info, err := ledger.AccountInfo(ctx, sender.Address)
	if err != nil {
		return "", err
	}
	fee, err := ledger.Fee(ctx)
	if err != nil {
		return "", err
	}
	ledgerIndex, err := ledger.LedgerIndex(ctx)
	if err != nil {
		return "", err
	}

	feeDrops, err := strconv.ParseUint(fee, 10, 64)
	if err != nil {
		return "", &model.ValidationError{Message: "ledger returned a non-numeric fee"}
	}

	return buildPayment(sender, destination, amount, info.Sequence, ledgerIndex, feeDrops, currency)
}

// PrepareOffline builds and signs the same payment shape from
// caller-supplied out-of-band parameters, without any network call. The
// parameters must be scoped to the sender's own next transaction.
func PrepareOffline(sender *Wallet, destination, amount string, params model.OfflineParameters, currency string) (string, error) {
	if params.Sequence == 0 || params.LedgerIndex == 0 {
		return "", &model.ValidationError{Message: "offline parameters must carry a sequence and a ledger index"}
	}
	feeDrops, err := strconv.ParseUint(params.Fee, 10, 64)
	if err != nil || feeDrops == 0 {
		return "", &model.ValidationError{Message: "offline parameters must carry a numeric fee in drops"}
	}

	return buildPayment(sender, destination, amount, params.Sequence, params.LedgerIndex, feeDrops, currency)
}

package xrp

import (
	"context"
	"errors"
	"strconv"

	"github.com/kabylesystem/xrpl-hackaton/internal/crypto"
	"github.com/kabylesystem/xrpl-hackaton/internal/model"
	"github.com/kabylesystem/xrpl-hackaton/internal/sms"
)

// SweepSequence is a protocol invariant, not a queried value: the
// ephemeral account's sweep is its first and only outbound transaction.
const SweepSequence = 1

// Check parses a pasted send-message into a claim context. Only the hint
// should be shown to the user at this stage; no decryption is attempted.
func Check(text string) (*model.ClaimContext, error) {
	ctx := sms.ParseSend(text)
	if ctx == nil {
		return nil, &model.ParseError{Message: "could not find valid payment data in the pasted text"}
	}
	return ctx, nil
}

// Claim decrypts the envelope, rebuilds the ephemeral wallet and signs
// the sweep that moves its balance to the recipient. The result pairs the
// original funding blob with the fresh sweep blob; nothing is submitted
// here.
//
// With a live ledger the fee and ledger index are queried and the
// sequence-1 invariant is asserted against account_info. Offline, params
// must be supplied; they come from a PARAMS round trip that the app
// addresses with the recipient's own wallet (the ephemeral account's
// sequence is pinned to 1 and never queried).
func Claim(ctx context.Context, claimCtx *model.ClaimContext, password string, recipient *Wallet, ledger Ledger, params *model.OfflineParameters) (*model.RelayMessage, error) {
	seed, err := crypto.DecryptEnvelope(claimCtx.Envelope, password, SeedPrefix)
	if err != nil {
		return nil, err
	}

	ephemeral, err := FromSeed(seed)
	if err != nil {
		return nil, &model.CryptoError{Message: "incorrect password"}
	}
	defer ephemeral.Zero()

	var ledgerIndex uint32
	var feeDrops uint64

	switch {
	case ledger != nil:
		ledgerIndex, err = ledger.LedgerIndex(ctx)
		if err != nil {
			return nil, err
		}
		fee, err := ledger.Fee(ctx)
		if err != nil {
			return nil, err
		}
		if feeDrops, err = strconv.ParseUint(fee, 10, 64); err != nil {
			return nil, &model.ValidationError{Message: "ledger returned a non-numeric fee"}
		}

		// The account usually doesn't exist yet (the funding blob rides
		// along in the same relay), so not-found is the expected case.
		info, err := ledger.AccountInfo(ctx, ephemeral.Address)
		if err != nil && !errors.Is(err, ErrAccountNotFound) {
			return nil, err
		}
		if err == nil && info.Sequence != SweepSequence {
			return nil, &model.ValidationError{Message: "temporary account has already transacted; payment may have been claimed"}
		}

	case params != nil:
		ledgerIndex = params.LedgerIndex
		if feeDrops, err = strconv.ParseUint(params.Fee, 10, 64); err != nil || feeDrops == 0 {
			return nil, &model.ValidationError{Message: "offline parameters must carry a numeric fee in drops"}
		}

	default:
		return nil, &model.MissingParamsError{Message: "no connection and no offline parameters; request them via PARAMS first"}
	}

	sweep := &Transaction{
		Type:               TxTypeAccountDelete,
		Sequence:           SweepSequence,
		LastLedgerSequence: ledgerIndex + LedgerValidityWindow,
		FeeDrops:           feeDrops,
		Account:            ephemeral.Address,
		Destination:        recipient.Address,
	}
	if err := sweep.Sign(ephemeral); err != nil {
		return nil, &model.SigningError{Err: err}
	}

	sweepBlob, err := sweep.Blob()
	if err != nil {
		return nil, &model.SigningError{Err: err}
	}

	return &model.RelayMessage{
		FundingBlob: claimCtx.FundingTxBlob,
		SweepBlob:   sweepBlob,
	}, nil
}

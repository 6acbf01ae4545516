// Package relay is the backend half of the protocol: it classifies each
// inbound text, submits one or two transactions to the ledger in strict
// order, and reports the outcome back over the same text channel.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kabylesystem/xrpl-hackaton/internal/client"
	"github.com/kabylesystem/xrpl-hackaton/internal/model"
	"github.com/kabylesystem/xrpl-hackaton/internal/sms"
	"github.com/kabylesystem/xrpl-hackaton/xrp"

	"go.uber.org/zap"
)

// Ledger is the submission side of the ledger collaborator.
type Ledger interface {
	Submit(ctx context.Context, blob string) (client.SubmitResult, error)
	SubmitAndWait(ctx context.Context, blob string) (client.SubmitResult, error)
	AccountInfo(ctx context.Context, address string) (xrp.AccountInfo, error)
	Fee(ctx context.Context) (string, error)
	LedgerIndex(ctx context.Context) (uint32, error)
}

// Gateway delivers outbound text messages.
type Gateway interface {
	Send(ctx context.Context, to, body string) error
}

// Broadcaster handles inbound messages. Each message is independent;
// there is no shared mutable state across handlers beyond the checkpoint
// store and the ledger itself.
type Broadcaster struct {
	ledger      Ledger
	gateway     Gateway
	directory   Directory
	checkpoints *CheckpointStore
	log         *zap.SugaredLogger
}

// NewBroadcaster wires the broadcaster's collaborators.
func NewBroadcaster(ledger Ledger, gateway Gateway, directory Directory, checkpoints *CheckpointStore, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		ledger:      ledger,
		gateway:     gateway,
		directory:   directory,
		checkpoints: checkpoints,
		log:         logger.Named("broadcaster").Sugar(),
	}
}

// Handle processes one inbound (fromAddress, body) pair. Every outcome,
// including "I don't understand this", is reported back to the origin;
// nothing is silently dropped. The returned error is for observability
// only; by the time Handle returns, the sender has been told.
func (b *Broadcaster) Handle(ctx context.Context, from, body string) error {
	kind := sms.Classify(body)
	b.log.Infow("message received", "from", from, "kind", kind, "preview", sms.Clip(body, 50))

	switch kind {
	case sms.KindClaimRelay:
		return b.handleClaimRelay(ctx, from, body)
	case sms.KindParamsRequest:
		return b.handleParamsRequest(ctx, from, body)
	case sms.KindSendMessage, sms.KindParamsReply:
		// Peer-to-peer shapes; the relay is not their destination.
		b.reply(ctx, from, "This message is meant for the recipient's app, not the relay. Send a signed transaction, a claim message, or PARAMS <address>.")
		return nil
	default:
		if sms.IsSignedTxBlob(body) {
			return b.handleSignedTx(ctx, from, body)
		}
		b.reply(ctx, from, "Unsupported format. Send a signed transaction, a claim message, or PARAMS <address>.")
		return nil
	}
}

// handleClaimRelay submits the funding and sweep blobs strictly in order.
// The sweep's validity (account existence, balance) depends on the
// funding's effect, so the funding result must be observed first; a
// funding rejection means the sweep is never submitted.
func (b *Broadcaster) handleClaimRelay(ctx context.Context, from, body string) error {
	parts := strings.SplitN(strings.TrimSpace(body), "|", 2)
	fundingBlob := sms.ExtractTxBlob(parts[0])
	sweepBlob := sms.ExtractTxBlob(parts[1])

	checkpointID, err := b.checkpoints.BeginClaim(ctx, from)
	if err != nil {
		b.reply(ctx, from, "Claim failed: relay storage unavailable, try again later.")
		return err
	}

	funding, err := b.ledger.SubmitAndWait(ctx, fundingBlob)
	if err != nil {
		b.reply(ctx, from, "Claim failed: ledger unreachable while submitting funding transaction.")
		return err
	}
	if !isSuccessClass(funding.EngineResult) {
		reason := funding.EngineResult
		if err := b.checkpoints.MarkFundingFailed(ctx, checkpointID, reason); err != nil {
			b.log.Errorw("checkpoint update failed", "id", checkpointID, "err", err)
		}
		rejection := &model.LedgerRejection{EngineResult: reason, Hash: funding.Hash}
		b.reply(ctx, from, fmt.Sprintf("Claim failed: funding transaction rejected (%s). Nothing was submitted for the sweep.", reason))
		return rejection
	}

	// Durable record between the two submissions: if the process dies
	// here, the stranded claim shows up in PendingSweeps.
	if err := b.checkpoints.MarkFundingConfirmed(ctx, checkpointID, funding.Hash); err != nil {
		b.log.Errorw("checkpoint update failed", "id", checkpointID, "err", err)
	}

	sweep, err := b.ledger.SubmitAndWait(ctx, sweepBlob)
	if err != nil {
		if cerr := b.checkpoints.MarkSweepFailed(ctx, checkpointID, err.Error()); cerr != nil {
			b.log.Errorw("checkpoint update failed", "id", checkpointID, "err", cerr)
		}
		partial := &model.PartialRelayFailure{FundingHash: funding.Hash, SweepResult: "ledger unreachable"}
		b.reply(ctx, from, fmt.Sprintf("Funding confirmed (TX %s) but sweep not completed: ledger unreachable. Funds remain in the temporary account.", shortHash(funding.Hash)))
		return partial
	}
	if !isSuccessClass(sweep.EngineResult) {
		if cerr := b.checkpoints.MarkSweepFailed(ctx, checkpointID, sweep.EngineResult); cerr != nil {
			b.log.Errorw("checkpoint update failed", "id", checkpointID, "err", cerr)
		}
		partial := &model.PartialRelayFailure{FundingHash: funding.Hash, SweepResult: sweep.EngineResult}
		b.reply(ctx, from, fmt.Sprintf("Funding confirmed (TX %s) but sweep rejected: %s. Funds remain in the temporary account; build a fresh sweep with new parameters.", shortHash(funding.Hash), sweep.EngineResult))
		return partial
	}

	if err := b.checkpoints.MarkCompleted(ctx, checkpointID, sweep.Hash); err != nil {
		b.log.Errorw("checkpoint update failed", "id", checkpointID, "err", err)
	}
	b.reply(ctx, from, fmt.Sprintf("Claim confirmed! Funding TX: %s Sweep TX: %s", shortHash(funding.Hash), shortHash(sweep.Hash)))
	return nil
}

// handleSignedTx submits a lone signed blob and reports the result.
func (b *Broadcaster) handleSignedTx(ctx context.Context, from, body string) error {
	blob := sms.ExtractTxBlob(body)

	result, err := b.ledger.SubmitAndWait(ctx, blob)
	if err != nil {
		b.reply(ctx, from, "Payment failed: ledger unreachable, try again later.")
		return err
	}
	if !isSuccessClass(result.EngineResult) {
		rejection := &model.LedgerRejection{EngineResult: result.EngineResult, Hash: result.Hash}
		b.reply(ctx, from, fmt.Sprintf("Payment failed: %s", result.EngineResult))
		return rejection
	}

	b.reply(ctx, from, fmt.Sprintf("Payment confirmed! TX: %s", shortHash(result.Hash)))
	return nil
}

// handleParamsRequest looks up the requester's own account state and
// replies with the sequence/ledger/fee triple.
func (b *Broadcaster) handleParamsRequest(ctx context.Context, from, body string) error {
	address, _ := sms.ParseParamsRequest(body)
	if address == "" {
		registered, ok := b.directory.Lookup(from)
		if !ok {
			b.reply(ctx, from, "No address on file for your number. Use: PARAMS <address>")
			return nil
		}
		address = registered
	}

	info, err := b.ledger.AccountInfo(ctx, address)
	if err != nil {
		if errors.Is(err, xrp.ErrAccountNotFound) {
			b.reply(ctx, from, "Params failed: account not found on ledger.")
			return nil
		}
		b.reply(ctx, from, "Params failed: ledger unreachable, try again later.")
		return err
	}
	fee, err := b.ledger.Fee(ctx)
	if err != nil {
		b.reply(ctx, from, "Params failed: ledger unreachable, try again later.")
		return err
	}
	ledgerIndex, err := b.ledger.LedgerIndex(ctx)
	if err != nil {
		b.reply(ctx, from, "Params failed: ledger unreachable, try again later.")
		return err
	}

	b.reply(ctx, from, sms.FormatParamsReply(model.OfflineParameters{
		Sequence:    info.Sequence,
		LedgerIndex: ledgerIndex,
		Fee:         fee,
	}))
	return nil
}

// reply sends a clipped response back to the message's origin.
func (b *Broadcaster) reply(ctx context.Context, to, body string) {
	clipped := sms.Clip(body, sms.MaxReplyLen)
	if err := b.gateway.Send(ctx, to, clipped); err != nil {
		b.log.Errorw("failed to send reply", "to", to, "err", err)
		return
	}
	b.log.Infow("reply sent", "to", to, "body", clipped)
}

// isSuccessClass reports whether an engine result means the transaction
// was applied or queued for application.
func isSuccessClass(engineResult string) bool {
	return engineResult == "tesSUCCESS" || engineResult == "terQUEUED"
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	if hash == "" {
		return "N/A"
	}
	return hash
}

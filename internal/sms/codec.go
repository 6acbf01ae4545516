// Package sms encodes and decodes the fixed text shapes the payment
// protocol carries over SMS. Parsing is label-anchored and tolerant of
// surrounding free text; parse functions return nil on mismatch so
// callers can prompt for re-entry instead of handling panics.
package sms

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kabylesystem/xrpl-hackaton/internal/model"
)

// Kind tags the shape of an inbound message. Classification happens once
// per message, in fixed precedence: claim relay before send message
// before params reply before params request.
type Kind int

const (
	KindUnknown Kind = iota
	KindSendMessage
	KindParamsRequest
	KindParamsReply
	KindClaimRelay
)

// MaxReplyLen is the single-segment SMS budget every relay reply is
// clipped to.
const MaxReplyLen = 160

var (
	envelopeRe = regexp.MustCompile(`Encrypted Key:\s*([A-Za-z0-9+/=:]+)`)
	txDataRe   = regexp.MustCompile(`Transaction Data:\s*([A-Fa-f0-9]+)`)
	amountRe   = regexp.MustCompile(`Here is ([0-9.]+) XRP`)
	hintRe     = regexp.MustCompile(`Hint:\s*(.+)`)

	seqRe    = regexp.MustCompile(`SEQ:\s*(\d+)`)
	ledgerRe = regexp.MustCompile(`LEDGER:\s*(\d+)`)
	feeRe    = regexp.MustCompile(`FEE:\s*(\d+)`)

	paramsRequestRe = regexp.MustCompile(`^PARAMS(?:\s+(\S+))?$`)

	// A signed transaction blob is a long run of hex.
	hexBlobRe = regexp.MustCompile(`^[0-9A-Fa-f]{100,}$`)
)

// Classify tags text with exactly one of the five message shapes.
func Classify(text string) Kind {
	trimmed := strings.TrimSpace(text)

	if isClaimRelay(trimmed) {
		return KindClaimRelay
	}
	if envelopeRe.MatchString(text) && txDataRe.MatchString(text) {
		return KindSendMessage
	}
	if seqRe.MatchString(text) && ledgerRe.MatchString(text) && feeRe.MatchString(text) {
		return KindParamsReply
	}
	if paramsRequestRe.MatchString(trimmed) {
		return KindParamsRequest
	}
	return KindUnknown
}

// isClaimRelay reports whether text is two transaction blobs joined by a
// pipe.
func isClaimRelay(text string) bool {
	if !strings.Contains(text, "|") {
		return false
	}
	parts := strings.Split(text, "|")
	if len(parts) != 2 {
		return false
	}
	return looksLikeTxBlob(parts[0]) && looksLikeTxBlob(parts[1])
}

// looksLikeTxBlob accepts raw hex blobs and JSON-wrapped tx_blob payloads.
func looksLikeTxBlob(s string) bool {
	s = strings.TrimSpace(s)
	if hexBlobRe.MatchString(s) {
		return true
	}
	return strings.HasPrefix(s, "{") && strings.Contains(s, "tx_blob")
}

// ParseSend extracts the claim context from a pasted send-message.
// Returns nil when the envelope or the funding blob is missing; amount
// and hint are optional.
func ParseSend(text string) *model.ClaimContext {
	envelope := envelopeRe.FindStringSubmatch(text)
	txData := txDataRe.FindStringSubmatch(text)
	if envelope == nil || txData == nil {
		return nil
	}

	ctx := &model.ClaimContext{
		Envelope:      strings.TrimSpace(envelope[1]),
		FundingTxBlob: strings.TrimSpace(txData[1]),
	}
	if m := amountRe.FindStringSubmatch(text); m != nil {
		ctx.Amount = m[1]
	}
	if m := hintRe.FindStringSubmatch(text); m != nil {
		ctx.Hint = strings.TrimSpace(m[1])
	}
	return ctx
}

// ParseParamsReply extracts offline parameters from a gateway reply.
// Returns nil if any of the three fields is missing or non-numeric.
func ParseParamsReply(text string) *model.OfflineParameters {
	seq := seqRe.FindStringSubmatch(text)
	ledger := ledgerRe.FindStringSubmatch(text)
	fee := feeRe.FindStringSubmatch(text)
	if seq == nil || ledger == nil || fee == nil {
		return nil
	}

	sequence, err := strconv.ParseUint(seq[1], 10, 32)
	if err != nil {
		return nil
	}
	ledgerIndex, err := strconv.ParseUint(ledger[1], 10, 32)
	if err != nil {
		return nil
	}

	return &model.OfflineParameters{
		Sequence:    uint32(sequence),
		LedgerIndex: uint32(ledgerIndex),
		Fee:         fee[1],
	}
}

// ParseParamsRequest extracts the address from a PARAMS request. The
// address may be absent; the relay then falls back to its directory.
func ParseParamsRequest(text string) (address string, ok bool) {
	m := paramsRequestRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FormatSend renders the sender-side message carrying the envelope, the
// hint and the signed funding blob. ParseSend recovers the exact tuple.
func FormatSend(envelope, hint, fundingBlob, amount string) string {
	return fmt.Sprintf(`Here is %s XRP.

To claim it:
1. Download the XRPL Hackathon App
2. Go to "Receive" > "Claim SMS Payment"
3. Enter these details:

Encrypted Key:
%s

Hint: %s

Transaction Data:
%s`, amount, envelope, hint, fundingBlob)
}

// FormatClaimRelay joins the funding and sweep blobs for transport. With
// no sweep blob, the funding blob alone is returned.
func FormatClaimRelay(msg model.RelayMessage) string {
	if msg.SweepBlob == "" {
		return msg.FundingBlob
	}
	return msg.FundingBlob + "|" + msg.SweepBlob
}

// FormatParamsRequest renders a PARAMS request for the given address.
func FormatParamsRequest(address string) string {
	return "PARAMS " + address
}

// FormatParamsReply renders the offline-parameters reply.
func FormatParamsReply(p model.OfflineParameters) string {
	return fmt.Sprintf("SEQ: %d | LEDGER: %d | FEE: %s", p.Sequence, p.LedgerIndex, p.Fee)
}

// IsSignedTxBlob reports whether text is a lone signed transaction (raw
// hex or JSON-wrapped). Used on otherwise-unknown messages; not one of
// the five classified shapes.
func IsSignedTxBlob(text string) bool {
	return looksLikeTxBlob(text)
}

// ExtractTxBlob pulls the hex blob out of a lone signed transaction
// message, unwrapping {"tx_blob": "..."} JSON if present.
func ExtractTxBlob(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.Contains(trimmed, "tx_blob") {
		var wrapped struct {
			TxBlob string `json:"tx_blob"`
		}
		if err := json.Unmarshal([]byte(trimmed), &wrapped); err == nil && wrapped.TxBlob != "" {
			return strings.TrimSpace(wrapped.TxBlob)
		}
	}
	return trimmed
}

// Clip bounds a reply body to n characters for a single-segment send.
func Clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

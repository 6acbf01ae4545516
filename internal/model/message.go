package model

// OfflineParameters holds the sequence/ledger/fee triple obtained
// out-of-band when the ledger is unreachable. Scoped to exactly one
// signer's next transaction; never reuse across signers.
type OfflineParameters struct {
	Sequence    uint32 `json:"sequence"`
	LedgerIndex uint32 `json:"ledgerIndex"`
	Fee         string `json:"fee"` // drops
}

// ClaimContext is the structured form of a pasted send-message: the
// encrypted seed envelope, the password hint, the signed funding blob and
// the optional amount. Produced by the parse step, consumed once at claim
// time.
type ClaimContext struct {
	Envelope      string
	Hint          string
	FundingTxBlob string
	Amount        string // empty when the message carried none
}

// RelayMessage pairs the sender's funding blob with the recipient's sweep
// blob for transport to the relay. SweepBlob may be empty when a single
// transaction is relayed alone.
type RelayMessage struct {
	FundingBlob string
	SweepBlob   string
}

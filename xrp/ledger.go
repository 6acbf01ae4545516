package xrp

import (
	"context"
	"errors"
)

// ErrAccountNotFound means the queried account does not exist on the
// ledger (yet). Expected for an ephemeral account before its funding
// transaction validates.
var ErrAccountNotFound = errors.New("account not found on ledger")

// AccountInfo is the slice of account state the protocol needs.
type AccountInfo struct {
	Sequence     uint32
	BalanceDrops uint64
}

// Ledger is the read side of the ledger collaborator, enough to
// parameterize a transaction online.
type Ledger interface {
	AccountInfo(ctx context.Context, address string) (AccountInfo, error)
	Fee(ctx context.Context) (string, error)         // base fee in drops
	LedgerIndex(ctx context.Context) (uint32, error) // latest validated ledger
}

package model

import (
	"errors"
	"fmt"
)

// ValidationError means the caller supplied bad input (amount, password,
// hint, offline parameters) and must correct it before retrying.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError checks if error is ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// ParseError means a pasted message matched no known shape. Non-fatal:
// the caller should prompt for re-entry.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// IsParseError checks if error is ParseError
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// CryptoError covers a malformed envelope, a failed decryption and a
// recovered seed that doesn't look like a seed. All three surface to the
// user the same way so the message never reveals which part failed.
type CryptoError struct {
	Message string
}

func (e *CryptoError) Error() string {
	return e.Message
}

// IsCryptoError checks if error is CryptoError
func IsCryptoError(err error) bool {
	var target *CryptoError
	return errors.As(err, &target)
}

// NetworkError means the ledger was unreachable during an online-path
// call. Retryable by the caller.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("ledger unreachable during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError checks if error is NetworkError
func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// MissingParamsError means the offline path was invoked without the
// out-of-band sequence/ledger/fee parameters it needs.
type MissingParamsError struct {
	Message string
}

func (e *MissingParamsError) Error() string {
	return e.Message
}

// IsMissingParamsError checks if error is MissingParamsError
func IsMissingParamsError(err error) bool {
	var target *MissingParamsError
	return errors.As(err, &target)
}

// SigningError wraps a failure while signing a transaction.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("failed to sign transaction: %v", e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// IsSigningError checks if error is SigningError
func IsSigningError(err error) bool {
	var target *SigningError
	return errors.As(err, &target)
}

// LedgerRejection means the ledger classified a submitted transaction as
// failed. Terminal for that transaction: recovery needs a freshly
// parameterized and freshly signed one, never a resubmission of the same
// blob.
type LedgerRejection struct {
	EngineResult string
	Hash         string
}

func (e *LedgerRejection) Error() string {
	return fmt.Sprintf("transaction rejected by ledger: %s", e.EngineResult)
}

// IsLedgerRejection checks if error is LedgerRejection
func IsLedgerRejection(err error) bool {
	var target *LedgerRejection
	return errors.As(err, &target)
}

// PartialRelayFailure means the funding transaction was confirmed but the
// sweep was rejected: funds are stranded in the ephemeral account until a
// fresh sweep is built. Carries the confirmed funding hash and the sweep
// rejection reason so recovery is possible.
type PartialRelayFailure struct {
	FundingHash string
	SweepResult string
}

func (e *PartialRelayFailure) Error() string {
	return fmt.Sprintf("funding confirmed (TX %s) but sweep rejected: %s", e.FundingHash, e.SweepResult)
}

// IsPartialRelayFailure checks if error is PartialRelayFailure
func IsPartialRelayFailure(err error) bool {
	var target *PartialRelayFailure
	return errors.As(err, &target)
}

package xrp

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"
)

// TxType is the ledger transaction type code.
type TxType uint16

const (
	// TxTypePayment moves value between two accounts (and creates the
	// destination account if it doesn't exist yet).
	TxTypePayment TxType = 0
	// TxTypeAccountDelete empties an account's remaining balance into the
	// destination and removes the account from the ledger. This is the
	// sweep shape: the ephemeral account's first and only transaction.
	TxTypeAccountDelete TxType = 21
)

// Hash prefixes namespace the bytes being hashed or signed.
var (
	prefixTxSign = []byte{0x53, 0x54, 0x58, 0x00} // "STX\0": single-signature signing payload
	prefixTxID   = []byte{0x54, 0x58, 0x4E, 0x00} // "TXN\0": transaction identifying hash
)

// Transaction is the in-memory form of the two shapes this protocol signs.
// Immutable once signed; amounts and fees are drops.
type Transaction struct {
	Type               TxType
	Flags              *uint32 // Payment carries Flags; AccountDelete omits it
	Sequence           uint32
	LastLedgerSequence uint32
	AmountDrops        uint64 // Payment only
	FeeDrops           uint64
	SigningPubKey      []byte
	TxnSignature       []byte
	Account            string
	Destination        string
}

// serialize writes the transaction in canonical field order. The signature
// field is left out for the signing payload.
func (tx *Transaction) serialize(withSignature bool) ([]byte, error) {
	account, err := DecodeAddress(tx.Account)
	if err != nil {
		return nil, fmt.Errorf("bad account: %w", err)
	}
	destination, err := DecodeAddress(tx.Destination)
	if err != nil {
		return nil, fmt.Errorf("bad destination: %w", err)
	}
	if len(tx.SigningPubKey) == 0 {
		return nil, fmt.Errorf("missing signing public key")
	}

	buf := make([]byte, 0, 256)
	buf = appendUInt16(buf, fieldTransactionType, uint16(tx.Type))
	if tx.Flags != nil {
		buf = appendUInt32(buf, fieldFlags, *tx.Flags)
	}
	buf = appendUInt32(buf, fieldSequence, tx.Sequence)
	buf = appendUInt32Ext(buf, fieldLastLedgerSequence, tx.LastLedgerSequence)
	if tx.Type == TxTypePayment {
		buf = appendDrops(buf, fieldAmount, tx.AmountDrops)
	}
	buf = appendDrops(buf, fieldFee, tx.FeeDrops)
	if buf, err = appendBlob(buf, fieldSigningPubKey, tx.SigningPubKey); err != nil {
		return nil, err
	}
	if withSignature {
		if len(tx.TxnSignature) == 0 {
			return nil, fmt.Errorf("transaction is not signed")
		}
		if buf, err = appendBlob(buf, fieldTxnSignature, tx.TxnSignature); err != nil {
			return nil, err
		}
	}
	if buf, err = appendBlob(buf, fieldAccount, account); err != nil {
		return nil, err
	}
	if buf, err = appendBlob(buf, fieldDestination, destination); err != nil {
		return nil, err
	}
	return buf, nil
}

// Sign fills in SigningPubKey and TxnSignature using the wallet's key.
// The wallet must own the transaction's Account.
func (tx *Transaction) Sign(w *Wallet) error {
	if w.Address != tx.Account {
		return fmt.Errorf("signing key does not match transaction account")
	}
	tx.SigningPubKey = w.SigningPubKey()

	payload, err := tx.serialize(false)
	if err != nil {
		return err
	}
	tx.TxnSignature = w.Sign(append(append([]byte{}, prefixTxSign...), payload...))
	return nil
}

// Blob returns the signed transaction as uppercase hex, the form carried
// over the text channel and submitted to the ledger.
func (tx *Transaction) Blob() (string, error) {
	raw, err := tx.serialize(true)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(raw)), nil
}

// Hash returns the transaction's identifying hash (SHA-512 half over the
// TXN-prefixed signed blob), uppercase hex.
func (tx *Transaction) Hash() (string, error) {
	raw, err := tx.serialize(true)
	if err != nil {
		return "", err
	}
	digest := sha512.Sum512(append(append([]byte{}, prefixTxID...), raw...))
	return strings.ToUpper(hex.EncodeToString(digest[:32])), nil
}

package xrp

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Binary field headers for the two transaction shapes this protocol emits
// (Payment and AccountDelete). A header byte packs the field's type code in
// the high nibble and its ordinal in the low nibble; ordinals >= 16 spill
// into a second byte.
const (
	fieldTransactionType    = 0x12 // UInt16 2
	fieldFlags              = 0x22 // UInt32 2
	fieldSequence           = 0x24 // UInt32 4
	fieldLastLedgerSequence = 0x1B // UInt32 27, encoded as 0x20 0x1B
	fieldAmount             = 0x61 // Amount 1
	fieldFee                = 0x68 // Amount 8
	fieldSigningPubKey      = 0x73 // Blob 3
	fieldTxnSignature       = 0x74 // Blob 4
	fieldAccount            = 0x81 // AccountID 1
	fieldDestination        = 0x83 // AccountID 3
)

// Positive-value marker bit for native drop amounts.
const nativeAmountPositive = 0x4000000000000000

func appendUInt16(buf []byte, header byte, v uint16) []byte {
	buf = append(buf, header)
	return binary.BigEndian.AppendUint16(buf, v)
}

func appendUInt32(buf []byte, header byte, v uint32) []byte {
	buf = append(buf, header)
	return binary.BigEndian.AppendUint32(buf, v)
}

func appendUInt32Ext(buf []byte, ordinal byte, v uint32) []byte {
	buf = append(buf, 0x20, ordinal)
	return binary.BigEndian.AppendUint32(buf, v)
}

func appendDrops(buf []byte, header byte, drops uint64) []byte {
	buf = append(buf, header)
	return binary.BigEndian.AppendUint64(buf, drops|nativeAmountPositive)
}

// appendBlob writes a variable-length field. Both blobs this codec carries
// (33-byte signing key, 64-byte signature) and account IDs (20 bytes) fit
// the single-byte length form.
func appendBlob(buf []byte, header byte, b []byte) ([]byte, error) {
	if len(b) > 192 {
		return nil, fmt.Errorf("blob too long for single-byte length: %d", len(b))
	}
	buf = append(buf, header, byte(len(b)))
	return append(buf, b...), nil
}

type fieldReader struct {
	data []byte
	pos  int
}

func (r *fieldReader) done() bool {
	return r.pos >= len(r.data)
}

func (r *fieldReader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("truncated field at offset %d", r.pos)
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *fieldReader) readUInt16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *fieldReader) readUInt32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *fieldReader) readDrops() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(b)
	if v&nativeAmountPositive == 0 {
		return 0, fmt.Errorf("non-native or negative amount")
	}
	return v &^ nativeAmountPositive, nil
}

func (r *fieldReader) readBlob() ([]byte, error) {
	l, err := r.take(1)
	if err != nil {
		return nil, err
	}
	if l[0] > 192 {
		return nil, fmt.Errorf("multi-byte blob length not supported")
	}
	return r.take(int(l[0]))
}

// DecodeTx parses a signed blob back into a Transaction. Only the fields
// the protocol's two shapes carry are understood; anything else fails.
func DecodeTx(blobHex string) (*Transaction, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(blobHex))
	if err != nil {
		return nil, fmt.Errorf("invalid transaction blob hex: %w", err)
	}

	tx := &Transaction{}
	r := &fieldReader{data: raw}

	for !r.done() {
		header, err := r.take(1)
		if err != nil {
			return nil, err
		}

		switch header[0] {
		case fieldTransactionType:
			v, err := r.readUInt16()
			if err != nil {
				return nil, err
			}
			tx.Type = TxType(v)
		case fieldFlags:
			v, err := r.readUInt32()
			if err != nil {
				return nil, err
			}
			tx.Flags = &v
		case fieldSequence:
			if tx.Sequence, err = r.readUInt32(); err != nil {
				return nil, err
			}
		case 0x20: // extended UInt32 header
			ordinal, err := r.take(1)
			if err != nil {
				return nil, err
			}
			if ordinal[0] != fieldLastLedgerSequence {
				return nil, fmt.Errorf("unsupported UInt32 field %d", ordinal[0])
			}
			if tx.LastLedgerSequence, err = r.readUInt32(); err != nil {
				return nil, err
			}
		case fieldAmount:
			if tx.AmountDrops, err = r.readDrops(); err != nil {
				return nil, err
			}
		case fieldFee:
			if tx.FeeDrops, err = r.readDrops(); err != nil {
				return nil, err
			}
		case fieldSigningPubKey:
			if tx.SigningPubKey, err = r.readBlob(); err != nil {
				return nil, err
			}
		case fieldTxnSignature:
			if tx.TxnSignature, err = r.readBlob(); err != nil {
				return nil, err
			}
		case fieldAccount:
			accountID, err := r.readBlob()
			if err != nil {
				return nil, err
			}
			if tx.Account, err = EncodeAddress(accountID); err != nil {
				return nil, err
			}
		case fieldDestination:
			accountID, err := r.readBlob()
			if err != nil {
				return nil, err
			}
			if tx.Destination, err = EncodeAddress(accountID); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unsupported field header 0x%02X", header[0])
		}
	}

	return tx, nil
}

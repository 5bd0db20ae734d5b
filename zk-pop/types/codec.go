package types

import (
	"encoding/binary"
	"fmt"
)

// The host-to-predicate wire format is a fixed sequence of raw values:
// a Hash is 32 bytes, an amount is a big-endian u64, a Merkle path is its 32
// siblings followed by its 32 one-byte side markers.

const pathSize = Depth*HashSize + Depth

var inputSizes = map[Kind]int{
	KindMerkle:    2*HashSize + pathSize,
	KindAudit:     4*HashSize + 4*AmountSize,
	KindNullifier: 2 * HashSize,
	KindTransfer:  AmountSize + 2*HashSize + pathSize + 3*HashSize,
	KindWithdraw:  AmountSize + 2*HashSize + pathSize + 2*HashSize + AmountSize,
	KindCondition: 1 + AmountSize,
	KindSplit:     2*HashSize + 2*AmountSize,
	KindStream:    HashSize + AmountSize,
}

// InputSize returns the exact encoded length of a predicate input.
func InputSize(k Kind) (int, error) {
	n, ok := inputSizes[k]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	return n, nil
}

type encoder struct {
	buf []byte
}

func newEncoder(k Kind) *encoder {
	return &encoder{buf: make([]byte, 0, inputSizes[k])}
}

func (e *encoder) hash(h Hash) {
	e.buf = append(e.buf, h[:]...)
}

func (e *encoder) u64(v uint64) {
	e.buf = binary.BigEndian.AppendUint64(e.buf, v)
}

func (e *encoder) u8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *encoder) path(p *MerklePath) {
	for i := range p {
		e.hash(p[i].Sibling)
	}
	for i := range p {
		e.u8(p[i].Side)
	}
}

type decoder struct {
	buf []byte
	off int
}

func (d *decoder) hash() (h Hash) {
	copy(h[:], d.buf[d.off:d.off+HashSize])
	d.off += HashSize
	return
}

func (d *decoder) u64() uint64 {
	v := binary.BigEndian.Uint64(d.buf[d.off : d.off+AmountSize])
	d.off += AmountSize
	return v
}

func (d *decoder) u8() uint8 {
	v := d.buf[d.off]
	d.off++
	return v
}

func (d *decoder) path() (p MerklePath) {
	for i := range p {
		p[i].Sibling = d.hash()
	}
	for i := range p {
		p[i].Side = d.u8()
	}
	return
}

// DecodeInput decodes the fixed read sequence of predicate k. Wrong lengths and
// non-canonical field elements are rejected before any predicate check runs.
func DecodeInput(k Kind, bz []byte) (Input, error) {
	size, err := InputSize(k)
	if err != nil {
		return nil, err
	}
	if len(bz) != size {
		return nil, fmt.Errorf("%w: %s input must be %d bytes, got %d", ErrInputLength, k, size, len(bz))
	}

	d := &decoder{buf: bz}
	var in Input
	switch k {
	case KindMerkle:
		in = &MerkleInput{
			Root: d.hash(),
			Leaf: d.hash(),
			Path: d.path(),
		}
	case KindAudit:
		in = &AuditInput{
			NoteCommitment: d.hash(),
			ViewKey:        d.hash(),
			Amount:         d.u64(),
			Timestamp:      d.u64(),
			Purpose:        d.u64(),
			AuditID:        d.hash(),
			MerkleRoot:     d.hash(),
			CurrentTime:    d.u64(),
		}
	case KindNullifier:
		in = &NullifierInput{
			NoteCommitment: d.hash(),
			Secret:         d.hash(),
		}
	case KindTransfer:
		in = &TransferInput{
			InAmount:        d.u64(),
			InNullifier:     d.hash(),
			InSecret:        d.hash(),
			InPath:          d.path(),
			OutCommitment:   d.hash(),
			MerkleRoot:      d.hash(),
			RecipientPubkey: d.hash(),
		}
	case KindWithdraw:
		in = &WithdrawInput{
			InAmount:         d.u64(),
			InNullifier:      d.hash(),
			InSecret:         d.hash(),
			InPath:           d.path(),
			MerkleRoot:       d.hash(),
			RecipientAddress: d.hash(),
			WithdrawalAmount: d.u64(),
		}
	case KindCondition:
		in = &ConditionInput{
			ConditionType: d.u8(),
			Value:         d.u64(),
		}
	case KindSplit:
		in = &SplitInput{
			Recipients: [2]Hash{d.hash(), d.hash()},
			Amounts:    [2]uint64{d.u64(), d.u64()},
		}
	case KindStream:
		in = &StreamInput{
			StreamID:    d.hash(),
			TotalAmount: d.u64(),
		}
	}

	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("decode %s input: %w", k, err)
	}
	return in, nil
}

// EncodeInput is the inverse of DecodeInput.
func EncodeInput(in Input) ([]byte, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in.MarshalBinary()
}

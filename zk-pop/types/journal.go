package types

import "fmt"

// Journal is the public output of a predicate. Only the fields its kind commits
// to are serialized, in the order the kind writes them.
type Journal struct {
	Kind      Kind
	Valid     bool
	Nullifier Hash
	Root      Hash
}

// HasNullifier reports whether journals of kind k carry a nullifier.
func HasNullifier(k Kind) bool {
	return k == KindNullifier || k == KindTransfer || k == KindWithdraw
}

// HasRoot reports whether journals of kind k carry a Merkle root.
func HasRoot(k Kind) bool {
	return k == KindMerkle || k == KindAudit
}

// JournalSize is the serialized length of a journal of kind k.
func JournalSize(k Kind) int {
	n := 1
	if HasNullifier(k) {
		n += HashSize
	}
	if HasRoot(k) {
		n += HashSize
	}
	return n
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// Bytes serializes the journal:
//
//	merkle:                       root || valid
//	audit:                        valid || root
//	nullifier, transfer, withdraw: nullifier || valid
//	zkcondition, zksplit, zkstream: valid
func (j *Journal) Bytes() []byte {
	bz := make([]byte, 0, JournalSize(j.Kind))
	switch j.Kind {
	case KindMerkle:
		bz = append(bz, j.Root[:]...)
		bz = append(bz, boolByte(j.Valid))
	case KindAudit:
		bz = append(bz, boolByte(j.Valid))
		bz = append(bz, j.Root[:]...)
	case KindNullifier, KindTransfer, KindWithdraw:
		bz = append(bz, j.Nullifier[:]...)
		bz = append(bz, boolByte(j.Valid))
	default:
		bz = append(bz, boolByte(j.Valid))
	}
	return bz
}

func (j *Journal) String() string {
	s := fmt.Sprintf("%s{valid=%v", j.Kind, j.Valid)
	if HasNullifier(j.Kind) {
		s += " nullifier=" + j.Nullifier.Hex()
	}
	if HasRoot(j.Kind) {
		s += " root=" + j.Root.Hex()
	}
	return s + "}"
}

// DecodeJournal parses the journal of kind k. The validity byte must be 0 or 1.
func DecodeJournal(k Kind, bz []byte) (*Journal, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	if len(bz) != JournalSize(k) {
		return nil, fmt.Errorf("%w: %s journal must be %d bytes, got %d", ErrMalformedJournal, k, JournalSize(k), len(bz))
	}

	j := &Journal{Kind: k}
	var flag byte
	switch k {
	case KindMerkle:
		copy(j.Root[:], bz[:HashSize])
		flag = bz[HashSize]
	case KindAudit:
		flag = bz[0]
		copy(j.Root[:], bz[1:])
	case KindNullifier, KindTransfer, KindWithdraw:
		copy(j.Nullifier[:], bz[:HashSize])
		flag = bz[HashSize]
	default:
		flag = bz[0]
	}
	if flag > 1 {
		return nil, fmt.Errorf("%w: validity byte %d", ErrMalformedJournal, flag)
	}
	j.Valid = flag == 1
	return j, nil
}

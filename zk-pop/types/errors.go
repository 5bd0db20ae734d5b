package types

import "errors"

var (
	// ErrMalformedFieldElement is returned for byte strings that do not decode to a
	// canonical field element. It aborts evaluation: no journal is produced.
	ErrMalformedFieldElement = errors.New("malformed field element")
	ErrInputLength           = errors.New("wrong input length")
	ErrUnknownKind           = errors.New("unknown predicate kind")
	ErrMalformedJournal      = errors.New("malformed journal")
	ErrKindMismatch          = errors.New("predicate kind mismatch")
)

package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

// Request is the RLP envelope a host hands to a prover: the predicate tag and
// its raw input bytes.
type Request struct {
	Kind    Kind
	Payload []byte
}

func NewRequest(in Input) (*Request, error) {
	payload, err := EncodeInput(in)
	if err != nil {
		return nil, err
	}
	return &Request{Kind: in.Kind(), Payload: payload}, nil
}

// Input decodes the payload according to the request kind.
func (r *Request) Input() (Input, error) {
	return DecodeInput(r.Kind, r.Payload)
}

func EncodeRequest(r *Request) ([]byte, error) {
	return rlp.EncodeToBytes(r)
}

func DecodeRequest(bz []byte) (*Request, error) {
	r := &Request{}
	if err := rlp.DecodeBytes(bz, r); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if !r.Kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(r.Kind))
	}
	return r, nil
}

// Receipt binds a journal to the proof that attests it.
type Receipt struct {
	Kind    Kind
	Hash    string
	Backend string
	Journal []byte
	Proof   []byte
}

// DecodedJournal parses the receipt journal.
func (r *Receipt) DecodedJournal() (*Journal, error) {
	return DecodeJournal(r.Kind, r.Journal)
}

func EncodeReceipt(r *Receipt) ([]byte, error) {
	return rlp.EncodeToBytes(r)
}

func DecodeReceipt(bz []byte) (*Receipt, error) {
	r := &Receipt{}
	if err := rlp.DecodeBytes(bz, r); err != nil {
		return nil, fmt.Errorf("decode receipt: %w", err)
	}
	if !r.Kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(r.Kind))
	}
	return r, nil
}

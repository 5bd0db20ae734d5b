// Package hasher provides the two-to-one compression function every commitment,
// nullifier and Merkle level is built on.
package hasher

import (
	"errors"
	"fmt"
	"hash"
	"math/big"
	"strings"

	"github.com/iden3/go-iden3-crypto/poseidon"
	"github.com/kysee/zkpop/utils"
	"github.com/kysee/zkpop/zk-pop/types"
)

// Kind names a compression construction.
type Kind string

const (
	Poseidon2 Kind = "poseidon2"
	MiMC      Kind = "mimc"
	// Poseidon is the circomlib Poseidon. It has no circuit gadget.
	Poseidon Kind = "poseidon"
)

var ErrUnknownHash = errors.New("unknown hash construction")

// Engine compresses two field elements into one. Argument order matters.
type Engine interface {
	Kind() Kind
	Compress(a, b types.Hash) (types.Hash, error)
}

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Poseidon2, MiMC, Poseidon:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownHash, s)
	}
}

func New(kind Kind) (Engine, error) {
	switch kind {
	case Poseidon2:
		return &gnarkEngine{kind: Poseidon2, newHasher: utils.Poseidon2Hasher}, nil
	case MiMC:
		return &gnarkEngine{kind: MiMC, newHasher: utils.MiMCHasher}, nil
	case Poseidon:
		return poseidonEngine{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHash, string(kind))
	}
}

func MustNew(kind Kind) Engine {
	e, err := New(kind)
	if err != nil {
		panic(err)
	}
	return e
}

// Default returns the Poseidon2 engine.
func Default() Engine {
	return MustNew(Poseidon2)
}

// CompressAmount hashes a together with a u64 amount zero-extended into the low
// 8 bytes of a field element.
func CompressAmount(e Engine, a types.Hash, amount uint64) (types.Hash, error) {
	return e.Compress(a, types.AmountHash(amount))
}

func checkOperands(a, b types.Hash) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("left operand: %w", err)
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("right operand: %w", err)
	}
	return nil
}

// gnarkEngine absorbs a then b into a fresh gnark-crypto hasher per call.
type gnarkEngine struct {
	kind      Kind
	newHasher func() hash.Hash
}

func (e *gnarkEngine) Kind() Kind { return e.kind }

func (e *gnarkEngine) Compress(a, b types.Hash) (types.Hash, error) {
	var out types.Hash
	if err := checkOperands(a, b); err != nil {
		return out, err
	}
	h := e.newHasher()
	if _, err := h.Write(a[:]); err != nil {
		return out, fmt.Errorf("%s: %w", e.kind, err)
	}
	if _, err := h.Write(b[:]); err != nil {
		return out, fmt.Errorf("%s: %w", e.kind, err)
	}
	copy(out[:], h.Sum(nil))
	return out, nil
}

type poseidonEngine struct{}

func (poseidonEngine) Kind() Kind { return Poseidon }

func (poseidonEngine) Compress(a, b types.Hash) (types.Hash, error) {
	var out types.Hash
	if err := checkOperands(a, b); err != nil {
		return out, err
	}
	r, err := poseidon.Hash([]*big.Int{
		new(big.Int).SetBytes(a[:]),
		new(big.Int).SetBytes(b[:]),
	})
	if err != nil {
		return out, fmt.Errorf("%s: %w", Poseidon, err)
	}
	r.FillBytes(out[:])
	return out, nil
}

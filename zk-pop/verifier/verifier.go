// Package verifier accepts proven transactions and keeps them from being spent twice.
package verifier

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kysee/zkpop/zk-pop/types"
)

var ErrInvalidTransaction = errors.New("journal reports an invalid transaction")

// ReceiptVerifier checks a receipt proof and returns the journal it attests.
// *prover.Harness satisfies it.
type ReceiptVerifier interface {
	Verify(rc *types.Receipt) (*types.Journal, error)
}

type Verifier struct {
	receipts ReceiptVerifier
	registry NullifierRegistry
	logger   zerolog.Logger
}

func New(rv ReceiptVerifier, reg NullifierRegistry, logger zerolog.Logger) *Verifier {
	return &Verifier{receipts: rv, registry: reg, logger: logger}
}

// Accept verifies rc, requires its journal to be valid and, for spends, records
// the nullifier. A nullifier seen before makes the whole receipt fail.
func (v *Verifier) Accept(rc *types.Receipt) (*types.Journal, error) {
	j, err := v.receipts.Verify(rc)
	if err != nil {
		return nil, err
	}
	if !j.Valid {
		v.logger.Warn().Stringer("kind", j.Kind).Msg("rejected invalid transaction")
		return j, ErrInvalidTransaction
	}
	if types.HasNullifier(j.Kind) {
		if err := v.registry.Insert(j.Nullifier); err != nil {
			v.logger.Warn().Stringer("kind", j.Kind).Stringer("nullifier", j.Nullifier).Msg("double spend")
			return j, fmt.Errorf("%s: %w", j.Nullifier, err)
		}
	}
	v.logger.Info().Stringer("journal", j).Msg("transaction accepted")
	return j, nil
}

package circuit

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
	"github.com/kysee/zkpop/zk-pop/hasher"
	"github.com/kysee/zkpop/zk-pop/predicate"
	"github.com/kysee/zkpop/zk-pop/types"
	"github.com/kysee/zkpop/zk-pop/vectors"
	"github.com/stretchr/testify/require"
)

var gadgetHashes = []hasher.Kind{hasher.Poseidon2, hasher.MiMC}

type compressCircuit struct {
	A, B     frontend.Variable
	Expected frontend.Variable `gnark:",public"`

	hash hasher.Kind
}

func (c *compressCircuit) Define(api frontend.API) error {
	cmp, err := newCompressor(api, c.hash)
	if err != nil {
		return err
	}
	api.AssertIsEqual(cmp.compress(c.A, c.B), c.Expected)
	return nil
}

func TestGadgetMatchesNative(t *testing.T) {
	for _, hk := range gadgetHashes {
		t.Run(string(hk), func(t *testing.T) {
			e := hasher.MustNew(hk)
			a, b := types.RandomHash(), types.RandomHash()
			out, err := e.Compress(a, b)
			require.NoError(t, err)

			w := &compressCircuit{A: hashVar(a), B: hashVar(b), Expected: hashVar(out), hash: hk}
			require.NoError(t, test.IsSolved(&compressCircuit{hash: hk}, w, ecc.BN254.ScalarField()))

			// swapped operands give a different digest
			w = &compressCircuit{A: hashVar(b), B: hashVar(a), Expected: hashVar(out), hash: hk}
			require.Error(t, test.IsSolved(&compressCircuit{hash: hk}, w, ecc.BN254.ScalarField()))
		})
	}
}

func TestCircuitsMatchPredicates(t *testing.T) {
	field := ecc.BN254.ScalarField()

	for _, hk := range gadgetHashes {
		t.Run(string(hk), func(t *testing.T) {
			e := hasher.MustNew(hk)
			suite, err := vectors.NewSuite(e, []byte("circuit"), vectors.DefaultCurrentTime)
			require.NoError(t, err)

			for _, k := range types.AllKinds() {
				vs, err := suite.Vectors(k)
				require.NoError(t, err)

				blank, err := New(k, hk)
				require.NoError(t, err)

				for _, v := range vs {
					j, err := predicate.Evaluate(e, v.Input)
					require.NoError(t, err)

					w, err := Assign(v.Input, j, hk)
					require.NoError(t, err)
					require.NoError(t, test.IsSolved(blank, w, field), "%s/%s", k, v.Name)

					// the circuit cannot claim the opposite outcome
					flipped := *j
					flipped.Valid = !j.Valid
					w, err = Assign(v.Input, &flipped, hk)
					require.NoError(t, err)
					require.Error(t, test.IsSolved(blank, w, field), "%s/%s flipped", k, v.Name)
				}
			}
		})
	}
}

func TestCircuitBindsNullifier(t *testing.T) {
	field := ecc.BN254.ScalarField()

	for _, hk := range gadgetHashes {
		t.Run(string(hk), func(t *testing.T) {
			e := hasher.MustNew(hk)
			suite, err := vectors.NewSuite(e, []byte("circuit"), vectors.DefaultCurrentTime)
			require.NoError(t, err)

			for _, k := range []types.Kind{types.KindNullifier, types.KindTransfer, types.KindWithdraw} {
				vs, err := suite.Vectors(k)
				require.NoError(t, err)

				blank, err := New(k, hk)
				require.NoError(t, err)

				j, err := predicate.Evaluate(e, vs[0].Input)
				require.NoError(t, err)
				w, err := Assign(vs[0].Input, j, hk)
				require.NoError(t, err)
				require.NoError(t, test.IsSolved(blank, w, field), k)

				forged := *j
				forged.Nullifier = types.RandomHash()
				w, err = Assign(vs[0].Input, &forged, hk)
				require.NoError(t, err)
				require.Error(t, test.IsSolved(blank, w, field), k)
			}
		})
	}
}

func TestNoGadget(t *testing.T) {
	require.False(t, HasGadget(hasher.Poseidon))
	require.True(t, HasGadget(hasher.Poseidon2))
	require.True(t, HasGadget(hasher.MiMC))

	_, err := New(types.KindTransfer, hasher.Poseidon)
	require.ErrorIs(t, err, ErrNoGadget)

	// hash-free predicates do not need a gadget
	c, err := New(types.KindSplit, hasher.Poseidon)
	require.NoError(t, err)
	require.IsType(t, &SplitCircuit{}, c)

	_, err = New(types.Kind(0), hasher.Poseidon2)
	require.ErrorIs(t, err, types.ErrUnknownKind)
}

func TestAssignKindMismatch(t *testing.T) {
	in := &types.StreamInput{StreamID: types.RandomHash(), TotalAmount: 1}
	_, err := Assign(in, &types.Journal{Kind: types.KindSplit, Valid: true}, hasher.Poseidon2)
	require.ErrorIs(t, err, types.ErrKindMismatch)
}

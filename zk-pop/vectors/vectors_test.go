package vectors

import (
	"testing"

	"github.com/kysee/zkpop/zk-pop/hasher"
	"github.com/kysee/zkpop/zk-pop/predicate"
	"github.com/kysee/zkpop/zk-pop/types"
	"github.com/stretchr/testify/require"
)

func TestKDF(t *testing.T) {
	seed := []byte("zkpop")
	h0 := KDF(seed, "a")
	require.Equal(t, h0, KDF(seed, "a"))
	require.NotEqual(t, h0, KDF(seed, "b"))
	require.NotEqual(t, h0, KDF([]byte("zkpoq"), "a"))
	require.NoError(t, h0.Validate())

	// blocks chain with an increasing counter
	long := expand(seed, "a", 100)
	require.Len(t, long, 100)
	require.Equal(t, expand(seed, "a", 32), long[:32])
	require.NotEqual(t, long[:32], long[32:64])
}

func TestVectorsMatchPredicates(t *testing.T) {
	for _, hk := range []hasher.Kind{hasher.Poseidon2, hasher.MiMC, hasher.Poseidon} {
		e := hasher.MustNew(hk)
		suite, err := NewSuite(e, []byte("zkpop"), DefaultCurrentTime)
		require.NoError(t, err)

		for _, k := range types.AllKinds() {
			vs, err := suite.Vectors(k)
			require.NoError(t, err)
			require.NotEmpty(t, vs)

			var valid, invalid int
			for _, v := range vs {
				require.Equal(t, k, v.Input.Kind())

				j, err := predicate.Evaluate(e, v.Input)
				require.NoError(t, err, "%s/%s/%s", hk, k, v.Name)
				require.Equal(t, v.Valid, j.Valid, "%s/%s/%s", hk, k, v.Name)
				if v.Valid {
					valid++
				} else {
					invalid++
				}

				// the wire form decodes back to the same input
				bz, err := types.EncodeInput(v.Input)
				require.NoError(t, err)
				in, err := types.DecodeInput(k, bz)
				require.NoError(t, err)
				require.Equal(t, v.Input, in)
			}
			require.Positive(t, valid, k)
			require.Positive(t, invalid, k)
		}
	}
}

func TestSuiteIsDeterministic(t *testing.T) {
	e := hasher.Default()
	s0, err := NewSuite(e, []byte("seed"), DefaultCurrentTime)
	require.NoError(t, err)
	s1, err := NewSuite(e, []byte("seed"), DefaultCurrentTime)
	require.NoError(t, err)
	require.Equal(t, s0.Tree().Root(), s1.Tree().Root())

	v0, err := s0.Vectors(types.KindWithdraw)
	require.NoError(t, err)
	v1, err := s1.Vectors(types.KindWithdraw)
	require.NoError(t, err)
	require.Equal(t, v0, v1)

	s2, err := NewSuite(e, []byte("other"), DefaultCurrentTime)
	require.NoError(t, err)
	require.NotEqual(t, s0.Tree().Root(), s2.Tree().Root())
}

func TestUnknownKind(t *testing.T) {
	suite, err := NewSuite(hasher.Default(), nil, DefaultCurrentTime)
	require.NoError(t, err)
	_, err = suite.Vectors(types.Kind(0))
	require.ErrorIs(t, err, types.ErrUnknownKind)
}

package utils

import (
	"hash"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalElement(t *testing.T) {
	one := make([]byte, ElementSize)
	one[ElementSize-1] = 1
	elem, err := CanonicalElement(one)
	require.NoError(t, err)
	require.True(t, elem.IsOne())

	// r itself is the smallest non-canonical value
	r := FieldModulus().FillBytes(make([]byte, ElementSize))
	_, err = CanonicalElement(r)
	require.ErrorIs(t, err, ErrNonCanonical)

	rMinus1 := new(big.Int).Sub(FieldModulus(), big.NewInt(1)).FillBytes(make([]byte, ElementSize))
	_, err = CanonicalElement(rMinus1)
	require.NoError(t, err)

	_, err = CanonicalElement(one[1:])
	require.ErrorIs(t, err, ErrNonCanonical)
}

func TestReduceBytes(t *testing.T) {
	r := FieldModulus().FillBytes(make([]byte, ElementSize))
	reduced := ReduceBytes(r)
	require.Equal(t, [ElementSize]byte{}, reduced)

	for i := 0; i < 16; i++ {
		v := RandElement()
		_, err := CanonicalElement(v[:])
		require.NoError(t, err)
	}
}

func TestHashersAreDeterministic(t *testing.T) {
	a := RandElement()
	b := RandElement()

	for _, newHasher := range []func() hash.Hash{Poseidon2Hasher, MiMCHasher} {
		h0 := newHasher()
		_, err := h0.Write(a[:])
		require.NoError(t, err)
		_, err = h0.Write(b[:])
		require.NoError(t, err)

		h1 := newHasher()
		_, _ = h1.Write(a[:])
		_, _ = h1.Write(b[:])

		require.Equal(t, h0.Sum(nil), h1.Sum(nil))
		require.Len(t, h0.Sum(nil), ElementSize)

		// argument order matters
		h2 := newHasher()
		_, _ = h2.Write(b[:])
		_, _ = h2.Write(a[:])
		require.NotEqual(t, h0.Sum(nil), h2.Sum(nil))
	}
}

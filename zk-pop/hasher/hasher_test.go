package hasher

import (
	"bytes"
	"testing"

	"github.com/kysee/zkpop/zk-pop/types"
	"github.com/stretchr/testify/require"
)

var allKinds = []Kind{Poseidon2, MiMC, Poseidon}

func TestCompressDeterministic(t *testing.T) {
	for _, k := range allKinds {
		e := MustNew(k)
		require.Equal(t, k, e.Kind())

		a, b := types.RandomHash(), types.RandomHash()
		h0, err := e.Compress(a, b)
		require.NoError(t, err)
		h1, err := e.Compress(a, b)
		require.NoError(t, err)
		require.Equal(t, h0, h1)
		require.NoError(t, h0.Validate())

		h2, err := e.Compress(b, a)
		require.NoError(t, err)
		require.NotEqual(t, h0, h2, "%s must be order sensitive", k)

		// a single byte change in either operand changes the output
		a1 := a
		a1[types.HashSize-1] ^= 0x01
		h3, err := e.Compress(a1, b)
		require.NoError(t, err)
		require.NotEqual(t, h0, h3)

		b1 := b
		b1[types.HashSize-1] ^= 0x01
		h4, err := e.Compress(a, b1)
		require.NoError(t, err)
		require.NotEqual(t, h0, h4)
	}
}

func TestEnginesDiffer(t *testing.T) {
	a, b := types.RandomHash(), types.RandomHash()
	seen := map[types.Hash]Kind{}
	for _, k := range allKinds {
		h, err := MustNew(k).Compress(a, b)
		require.NoError(t, err)
		_, dup := seen[h]
		require.False(t, dup)
		seen[h] = k
	}
}

func TestCompressRejectsNonCanonical(t *testing.T) {
	var bad types.Hash
	copy(bad[:], bytes.Repeat([]byte{0xff}, types.HashSize))

	for _, k := range allKinds {
		e := MustNew(k)
		_, err := e.Compress(bad, types.ZeroHash)
		require.ErrorIs(t, err, types.ErrMalformedFieldElement)
		_, err = e.Compress(types.ZeroHash, bad)
		require.ErrorIs(t, err, types.ErrMalformedFieldElement)
		require.ErrorContains(t, err, "right operand")
	}
}

func TestCompressAmount(t *testing.T) {
	e := Default()
	a := types.RandomHash()

	h0, err := CompressAmount(e, a, 1000)
	require.NoError(t, err)
	h1, err := e.Compress(a, types.AmountHash(1000))
	require.NoError(t, err)
	require.Equal(t, h0, h1)

	h2, err := CompressAmount(e, a, 1001)
	require.NoError(t, err)
	require.NotEqual(t, h0, h2)
}

func TestParseKind(t *testing.T) {
	for _, k := range allKinds {
		k1, err := ParseKind(string(k))
		require.NoError(t, err)
		require.Equal(t, k, k1)
	}
	k, err := ParseKind(" MiMC ")
	require.NoError(t, err)
	require.Equal(t, MiMC, k)

	_, err = ParseKind("sha256")
	require.ErrorIs(t, err, ErrUnknownHash)
	_, err = New("sha256")
	require.ErrorIs(t, err, ErrUnknownHash)
	require.Panics(t, func() { MustNew("sha256") })
}

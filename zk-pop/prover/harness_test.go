package prover

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kysee/zkpop/zk-pop/hasher"
	"github.com/kysee/zkpop/zk-pop/types"
	"github.com/kysee/zkpop/zk-pop/vectors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newRequest(t *testing.T, in types.Input) *types.Request {
	req, err := types.NewRequest(in)
	require.NoError(t, err)
	return req
}

func TestProveAndVerify(t *testing.T) {
	for _, scheme := range []Scheme{Groth16, Plonk} {
		h, err := New(scheme, hasher.Default())
		require.NoError(t, err)

		for _, in := range []types.Input{
			&types.ConditionInput{ConditionType: 1, Value: 7},
			// an invalid transaction still gets a proof of its journal
			&types.ConditionInput{ConditionType: 2, Value: 7},
		} {
			rc, err := h.Prove(newRequest(t, in))
			require.NoError(t, err)
			require.Equal(t, string(scheme), rc.Backend)

			j, err := h.Verify(rc)
			require.NoError(t, err)
			require.Equal(t, in.(*types.ConditionInput).ConditionType <= 1, j.Valid)

			// a receipt claiming the other outcome fails verification
			forged := *rc
			forged.Journal = []byte{1 - rc.Journal[0]}
			_, err = h.Verify(&forged)
			require.ErrorIs(t, err, ErrProofRejected)
		}
	}
}

func TestProveNullifier(t *testing.T) {
	e := hasher.Default()
	h, err := New(Groth16, e)
	require.NoError(t, err)

	suite, err := vectors.NewSuite(e, []byte("prover"), vectors.DefaultCurrentTime)
	require.NoError(t, err)
	vs, err := suite.Vectors(types.KindNullifier)
	require.NoError(t, err)

	rc, err := h.Prove(newRequest(t, vs[0].Input))
	require.NoError(t, err)
	j, err := h.Verify(rc)
	require.NoError(t, err)
	require.True(t, j.Valid)

	native, err := h.Evaluate(newRequest(t, vs[0].Input))
	require.NoError(t, err)
	require.Equal(t, native, j)

	// swapping the nullifier breaks the proof
	forged := *rc
	j.Nullifier = types.RandomHash()
	forged.Journal = j.Bytes()
	_, err = h.Verify(&forged)
	require.ErrorIs(t, err, ErrProofRejected)
}

func TestVerifyRejectsForeignReceipt(t *testing.T) {
	h, err := New(Groth16, hasher.Default())
	require.NoError(t, err)

	rc := &types.Receipt{Kind: types.KindStream, Hash: "mimc", Backend: "groth16", Journal: []byte{1}}
	_, err = h.Verify(rc)
	require.ErrorIs(t, err, ErrReceiptHarness)

	rc.Hash = "poseidon2"
	rc.Proof = []byte{1, 2, 3}
	_, err = h.Verify(rc)
	require.ErrorIs(t, err, ErrMalformedProof)

	rc.Journal = []byte{2}
	_, err = h.Verify(rc)
	require.ErrorIs(t, err, types.ErrMalformedJournal)
}

func TestKeyDirSharesKeys(t *testing.T) {
	dir := t.TempDir()
	e := hasher.Default()

	h0, err := New(Groth16, e, WithKeyDir(dir))
	require.NoError(t, err)
	rc, err := h0.Prove(newRequest(t, &types.StreamInput{StreamID: types.RandomHash(), TotalAmount: 10}))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "zkstream-poseidon2-groth16.vk"))
	require.NoError(t, err)

	// a second harness loads the same keys and accepts the receipt
	h1, err := New(Groth16, e, WithKeyDir(dir))
	require.NoError(t, err)
	j, err := h1.Verify(rc)
	require.NoError(t, err)
	require.True(t, j.Valid)
}

func TestMalformedRequest(t *testing.T) {
	h, err := New(Plonk, hasher.Default())
	require.NoError(t, err)

	_, err = h.Prove(&types.Request{Kind: types.KindStream, Payload: []byte{1}})
	require.ErrorIs(t, err, types.ErrInputLength)

	_, err = h.Evaluate(&types.Request{Kind: types.KindNullifier, Payload: bytes.Repeat([]byte{0xff}, 64)})
	require.ErrorIs(t, err, types.ErrMalformedFieldElement)
}

func TestPoseidonHasNoCircuit(t *testing.T) {
	h, err := New(Groth16, hasher.MustNew(hasher.Poseidon))
	require.NoError(t, err)

	// native evaluation works without a gadget
	j, err := h.Evaluate(newRequest(t, &types.NullifierInput{NoteCommitment: types.RandomHash(), Secret: types.RandomHash()}))
	require.NoError(t, err)
	require.True(t, j.Valid)

	_, err = h.Prove(newRequest(t, &types.NullifierInput{NoteCommitment: types.RandomHash(), Secret: types.RandomHash()}))
	require.Error(t, err)
}

func TestExportSolidity(t *testing.T) {
	var logs bytes.Buffer
	h, err := New(Groth16, hasher.Default(), WithLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, h.ExportSolidity(types.KindSplit, &buf))
	require.True(t, strings.Contains(buf.String(), "pragma solidity"))
	require.Contains(t, logs.String(), "circuit ready")
}

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("PLONK")
	require.NoError(t, err)
	require.Equal(t, Plonk, s)

	_, err = ParseScheme("stark")
	require.ErrorIs(t, err, ErrUnknownScheme)
	_, err = New("stark", hasher.Default())
	require.ErrorIs(t, err, ErrUnknownScheme)
}

func TestProveMerkleWithDefaultHash(t *testing.T) {
	e := hasher.Default()
	h, err := New(Groth16, e)
	require.NoError(t, err)

	suite, err := vectors.NewSuite(e, []byte("prover"), vectors.DefaultCurrentTime)
	require.NoError(t, err)
	vs, err := suite.Vectors(types.KindMerkle)
	require.NoError(t, err)

	for _, v := range vs {
		req := newRequest(t, v.Input)
		rc, err := h.Prove(req)
		require.NoError(t, err, v.Name)
		j, err := h.Verify(rc)
		require.NoError(t, err, v.Name)
		require.Equal(t, v.Valid, j.Valid, v.Name)

		native, err := h.Evaluate(req)
		require.NoError(t, err)
		require.Equal(t, native, j)
	}
}

func TestLoadOnlyNeedsKeys(t *testing.T) {
	e := hasher.Default()
	h0, err := New(Groth16, e)
	require.NoError(t, err)
	rc, err := h0.Prove(newRequest(t, &types.StreamInput{StreamID: types.RandomHash(), TotalAmount: 10}))
	require.NoError(t, err)

	dir := t.TempDir()
	h1, err := New(Groth16, e, WithKeyDir(dir), WithLoadOnly())
	require.NoError(t, err)
	_, err = h1.Verify(rc)
	require.ErrorIs(t, err, ErrMissingKeys)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

type brokenKey struct{}

func (brokenKey) WriteTo(w io.Writer) (int64, error) {
	n, _ := w.Write([]byte{1, 2, 3})
	return int64(n), errors.New("disk full")
}

func TestWriteFileRemovesPartialKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zkstream-poseidon2-groth16.pk")
	require.Error(t, writeFile(path, brokenKey{}))

	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

package verifier

import (
	"errors"
	"sync"
	"testing"

	"github.com/kysee/zkpop/zk-pop/hasher"
	"github.com/kysee/zkpop/zk-pop/prover"
	"github.com/kysee/zkpop/zk-pop/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// journalVerifier trusts every receipt.
type journalVerifier struct{}

func (journalVerifier) Verify(rc *types.Receipt) (*types.Journal, error) {
	return rc.DecodedJournal()
}

func receipt(j *types.Journal) *types.Receipt {
	return &types.Receipt{Kind: j.Kind, Journal: j.Bytes()}
}

func TestMemoryRegistry(t *testing.T) {
	reg := NewMemoryRegistry()
	nf := types.RandomHash()

	require.False(t, reg.Contains(nf))
	require.NoError(t, reg.Insert(nf))
	require.True(t, reg.Contains(nf))
	require.ErrorIs(t, reg.Insert(nf), ErrNullifierSpent)
	require.Equal(t, 1, reg.Len())
}

func TestConcurrentInsert(t *testing.T) {
	reg := NewMemoryRegistry()
	nf := types.RandomHash()

	var wg sync.WaitGroup
	var mtx sync.Mutex
	accepted := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if reg.Insert(nf) == nil {
				mtx.Lock()
				accepted++
				mtx.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, accepted)
}

func TestAccept(t *testing.T) {
	v := New(journalVerifier{}, NewMemoryRegistry(), zerolog.Nop())
	nf := types.RandomHash()

	j, err := v.Accept(receipt(&types.Journal{Kind: types.KindTransfer, Valid: true, Nullifier: nf}))
	require.NoError(t, err)
	require.Equal(t, nf, j.Nullifier)

	// same nullifier through another spend kind
	_, err = v.Accept(receipt(&types.Journal{Kind: types.KindWithdraw, Valid: true, Nullifier: nf}))
	require.ErrorIs(t, err, ErrNullifierSpent)

	_, err = v.Accept(receipt(&types.Journal{Kind: types.KindTransfer, Valid: false, Nullifier: types.RandomHash()}))
	require.ErrorIs(t, err, ErrInvalidTransaction)

	// kinds without a nullifier can be accepted repeatedly
	for i := 0; i < 2; i++ {
		_, err = v.Accept(receipt(&types.Journal{Kind: types.KindSplit, Valid: true}))
		require.NoError(t, err)
	}
}

func TestInvalidJournalDoesNotSpend(t *testing.T) {
	reg := NewMemoryRegistry()
	v := New(journalVerifier{}, reg, zerolog.Nop())
	nf := types.RandomHash()

	_, err := v.Accept(receipt(&types.Journal{Kind: types.KindWithdraw, Valid: false, Nullifier: nf}))
	require.ErrorIs(t, err, ErrInvalidTransaction)
	require.False(t, reg.Contains(nf))
}

func TestAcceptProvenReceipt(t *testing.T) {
	h, err := prover.New(prover.Groth16, hasher.Default())
	require.NoError(t, err)
	v := New(h, NewMemoryRegistry(), zerolog.Nop())

	req, err := types.NewRequest(&types.NullifierInput{NoteCommitment: types.RandomHash(), Secret: types.RandomHash()})
	require.NoError(t, err)
	rc, err := h.Prove(req)
	require.NoError(t, err)

	_, err = v.Accept(rc)
	require.NoError(t, err)
	_, err = v.Accept(rc)
	require.True(t, errors.Is(err, ErrNullifierSpent))

	// a tampered proof never reaches the registry
	rc.Proof[len(rc.Proof)/2] ^= 0xff
	_, err = v.Accept(rc)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNullifierSpent))
}

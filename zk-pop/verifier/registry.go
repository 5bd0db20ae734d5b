package verifier

import (
	"errors"
	"sync"

	"github.com/kysee/zkpop/zk-pop/types"
)

var ErrNullifierSpent = errors.New("nullifier already exists")

// NullifierRegistry records spent nullifiers. Insert must fail with
// ErrNullifierSpent when the nullifier is already present, atomically with the check.
type NullifierRegistry interface {
	Contains(nf types.Hash) bool
	Insert(nf types.Hash) error
}

// MemoryRegistry is a NullifierRegistry kept in memory.
type MemoryRegistry struct {
	mtx   sync.RWMutex
	spent map[types.Hash]struct{}
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{spent: make(map[types.Hash]struct{})}
}

func (r *MemoryRegistry) Contains(nf types.Hash) bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	_, ok := r.spent[nf]
	return ok
}

func (r *MemoryRegistry) Insert(nf types.Hash) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if _, ok := r.spent[nf]; ok {
		return ErrNullifierSpent
	}
	r.spent[nf] = struct{}{}
	return nil
}

func (r *MemoryRegistry) Len() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return len(r.spent)
}

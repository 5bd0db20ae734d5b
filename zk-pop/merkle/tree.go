package merkle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kysee/zkpop/zk-pop/hasher"
	"github.com/kysee/zkpop/zk-pop/types"
)

var (
	ErrTreeFull     = errors.New("commitment tree is full")
	ErrLeafNotFound = errors.New("leaf not found")
)

// MaxLeaves is the capacity of a depth-32 tree.
const MaxLeaves = uint64(1) << types.Depth

// Tree is an append-only sparse commitment tree of depth types.Depth.
// Empty positions hold the zero hash and untouched subtrees are never stored.
type Tree struct {
	mtx sync.RWMutex

	engine hasher.Engine
	// zeros[i] is the root of an empty subtree of height i
	zeros [types.Depth + 1]types.Hash
	// nodes[i] holds the non-empty nodes at height i, keyed by index
	nodes [types.Depth + 1]map[uint64]types.Hash
	index map[types.Hash]uint64
	size  uint64
}

func NewTree(e hasher.Engine) (*Tree, error) {
	t := &Tree{
		engine: e,
		index:  make(map[types.Hash]uint64),
	}
	for i := range t.nodes {
		t.nodes[i] = make(map[uint64]types.Hash)
	}
	for i := 1; i <= types.Depth; i++ {
		z, err := e.Compress(t.zeros[i-1], t.zeros[i-1])
		if err != nil {
			return nil, err
		}
		t.zeros[i] = z
	}
	return t, nil
}

func (t *Tree) node(height int, idx uint64) types.Hash {
	if h, ok := t.nodes[height][idx]; ok {
		return h
	}
	return t.zeros[height]
}

// Insert appends leaf and returns its position.
func (t *Tree) Insert(leaf types.Hash) (uint64, error) {
	if err := leaf.Validate(); err != nil {
		return 0, err
	}

	t.mtx.Lock()
	defer t.mtx.Unlock()

	if t.size >= MaxLeaves {
		return 0, ErrTreeFull
	}

	pos := t.size
	cur, idx := leaf, pos
	t.nodes[0][idx] = cur
	for h := 0; h < types.Depth; h++ {
		var err error
		if idx&1 == 1 {
			cur, err = t.engine.Compress(t.node(h, idx-1), cur)
		} else {
			cur, err = t.engine.Compress(cur, t.node(h, idx+1))
		}
		if err != nil {
			return 0, fmt.Errorf("insert at %d: %w", pos, err)
		}
		idx >>= 1
		t.nodes[h+1][idx] = cur
	}

	if _, ok := t.index[leaf]; !ok {
		t.index[leaf] = pos
	}
	t.size++
	return pos, nil
}

func (t *Tree) Root() types.Hash {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return t.node(types.Depth, 0)
}

func (t *Tree) Len() uint64 {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return t.size
}

// Leaf returns the leaf stored at pos.
func (t *Tree) Leaf(pos uint64) (types.Hash, error) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	if pos >= t.size {
		return types.ZeroHash, fmt.Errorf("%w: position %d of %d", ErrLeafNotFound, pos, t.size)
	}
	return t.nodes[0][pos], nil
}

// IndexOf returns the first position holding leaf.
func (t *Tree) IndexOf(leaf types.Hash) (uint64, error) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	pos, ok := t.index[leaf]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrLeafNotFound, leaf)
	}
	return pos, nil
}

// Path returns the membership proof of the leaf at pos against the current root.
func (t *Tree) Path(pos uint64) (types.MerklePath, error) {
	var path types.MerklePath

	t.mtx.RLock()
	defer t.mtx.RUnlock()
	if pos >= t.size {
		return path, fmt.Errorf("%w: position %d of %d", ErrLeafNotFound, pos, t.size)
	}

	idx := pos
	for h := 0; h < types.Depth; h++ {
		path[h] = types.PathNode{
			Sibling: t.node(h, idx^1),
			Side:    uint8(idx & 1),
		}
		idx >>= 1
	}
	return path, nil
}

// Package merkle checks membership proofs against the fixed-depth note
// commitment tree.
package merkle

import (
	"fmt"

	"github.com/kysee/zkpop/zk-pop/hasher"
	"github.com/kysee/zkpop/zk-pop/types"
)

// ComputeRoot folds leaf up through every level of path.
func ComputeRoot(e hasher.Engine, leaf types.Hash, path *types.MerklePath) (types.Hash, error) {
	cur := leaf
	for i := range path {
		var err error
		node := path[i]
		if node.IsRight() {
			cur, err = e.Compress(node.Sibling, cur)
		} else {
			cur, err = e.Compress(cur, node.Sibling)
		}
		if err != nil {
			return types.ZeroHash, fmt.Errorf("merkle level %d: %w", i, err)
		}
	}
	return cur, nil
}

// Verify reports whether path authenticates leaf under root. All Depth levels
// are hashed whatever the outcome. An error means an operand was not a canonical
// field element.
func Verify(e hasher.Engine, leaf, root types.Hash, path *types.MerklePath) (bool, error) {
	computed, err := ComputeRoot(e, leaf, path)
	if err != nil {
		return false, err
	}
	return computed == root, nil
}

package circuit

import (
	"errors"
	"fmt"

	native_poseidon2 "github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash"
	std_mimc "github.com/consensys/gnark/std/hash/mimc"
	std_perm "github.com/consensys/gnark/std/permutation/poseidon2"
	"github.com/kysee/zkpop/zk-pop/hasher"
)

var ErrNoGadget = errors.New("hash construction has no circuit gadget")

type gadgetFactory func(api frontend.API) (hash.FieldHasher, error)

var gadgets = map[hasher.Kind]gadgetFactory{
	hasher.Poseidon2: newPoseidon2,
	hasher.MiMC: func(api frontend.API) (hash.FieldHasher, error) {
		h, err := std_mimc.NewMiMC(api)
		if err != nil {
			return nil, err
		}
		return &h, nil
	},
}

// newPoseidon2 mirrors utils.Poseidon2Hasher: the BN254 default permutation
// in a Merkle-Damgard chain with a zero IV.
func newPoseidon2(api frontend.API) (hash.FieldHasher, error) {
	params := native_poseidon2.GetDefaultParameters()
	perm, err := std_perm.NewPoseidon2FromParameters(api, params.Width, params.NbFullRounds, params.NbPartialRounds)
	if err != nil {
		return nil, err
	}
	return hash.NewMerkleDamgardHasher(api, perm, 0), nil
}

// HasGadget reports whether circuits can be built for the hash construction.
func HasGadget(k hasher.Kind) bool {
	_, ok := gadgets[k]
	return ok
}

// compressor is the in-circuit counterpart of hasher.Engine.
type compressor struct {
	api frontend.API
	h   hash.FieldHasher
}

func newCompressor(api frontend.API, k hasher.Kind) (*compressor, error) {
	f, ok := gadgets[k]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoGadget, string(k))
	}
	h, err := f(api)
	if err != nil {
		return nil, err
	}
	return &compressor{api: api, h: h}, nil
}

func (c *compressor) compress(a, b frontend.Variable) frontend.Variable {
	c.h.Reset()
	c.h.Write(a, b)
	return c.h.Sum()
}

// rootOf folds leaf through every level. Each side must be 0 or 1; 1 puts the
// running value on the right.
func (c *compressor) rootOf(leaf frontend.Variable, siblings, sides *[pathDepth]frontend.Variable) frontend.Variable {
	api := c.api
	cur := leaf
	for i := 0; i < pathDepth; i++ {
		api.AssertIsBoolean(sides[i])
		left := api.Select(sides[i], siblings[i], cur)
		right := api.Select(sides[i], cur, siblings[i])
		cur = c.compress(left, right)
	}
	return cur
}

func isEqual(api frontend.API, a, b frontend.Variable) frontend.Variable {
	return api.IsZero(api.Sub(a, b))
}

func isNonZero(api frontend.API, a frontend.Variable) frontend.Variable {
	return api.Sub(1, api.IsZero(a))
}

// u64 constrains x to 64 bits.
func u64(api frontend.API, x frontend.Variable) {
	_ = api.ToBinary(x, 64)
}

// lessOrEqual returns 1 when a <= b for 64-bit a and b. b - a + 2^64 has bit 64
// set exactly when b >= a.
func lessOrEqual(api frontend.API, a, b frontend.Variable) frontend.Variable {
	shifted := api.Add(api.Sub(b, a), twoTo64)
	bits := api.ToBinary(shifted, 65)
	return bits[64]
}

func and(api frontend.API, bits ...frontend.Variable) frontend.Variable {
	acc := bits[0]
	for _, b := range bits[1:] {
		acc = api.And(acc, b)
	}
	return acc
}

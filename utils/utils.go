package utils

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"hash"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	_ "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"
	gnark_hash "github.com/consensys/gnark-crypto/hash"
)

// ElementSize is the byte length of a serialized BN254 scalar field element.
const ElementSize = fr.Bytes

var ErrNonCanonical = errors.New("value is not a canonical field element")

// FieldModulus returns the BN254 scalar field modulus r.
func FieldModulus() *big.Int {
	return fr.Modulus()
}

// CanonicalElement decodes exactly ElementSize big-endian bytes into a field element.
// Values greater than or equal to the modulus are rejected instead of being reduced.
func CanonicalElement(b []byte) (fr.Element, error) {
	var elem fr.Element
	if len(b) != ElementSize {
		return elem, fmt.Errorf("%w: expected %d bytes, got %d", ErrNonCanonical, ElementSize, len(b))
	}
	if err := elem.SetBytesCanonical(b); err != nil {
		return elem, fmt.Errorf("%w: %v", ErrNonCanonical, err)
	}
	return elem, nil
}

// ReduceBytes interprets b as a big-endian integer and reduces it modulo r.
// The result is always canonical.
func ReduceBytes(b []byte) [ElementSize]byte {
	var elem fr.Element
	elem.SetBytes(b)
	return elem.Bytes()
}

// Poseidon2Hasher is the Merkle-Damgard construction over the BN254 Poseidon2
// permutation (t=2) with a zero IV. Every written block must be canonical.
func Poseidon2Hasher() hash.Hash {
	return poseidon2.NewMerkleDamgardHasher()
}

func MiMCHasher() hash.Hash {
	return gnark_hash.MIMC_BN254.New()
}

func RandBytes(n int) []byte {
	rbz := make([]byte, n)
	_, _ = crand.Read(rbz)
	return rbz
}

// RandElement returns the canonical encoding of a uniformly random field element.
func RandElement() [ElementSize]byte {
	return ReduceBytes(RandBytes(ElementSize + 16))
}

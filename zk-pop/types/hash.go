package types

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/kysee/zkpop/utils"
)

const (
	// Depth is the fixed number of levels of the note commitment tree.
	Depth = 32

	HashSize   = utils.ElementSize
	AmountSize = 8
)

// Hash is the 32-byte big-endian encoding of a canonical BN254 scalar field element.
type Hash [HashSize]byte

var ZeroHash Hash

// BytesToHash copies b into a Hash and checks that it is canonical.
func BytesToHash(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashSize {
		return h, fmt.Errorf("%w: hash must be %d bytes, got %d", ErrInputLength, HashSize, len(b))
	}
	copy(h[:], b)
	return h, h.Validate()
}

// HexToHash parses a hex string, left-padding short values with zeros.
func HexToHash(s string) (Hash, error) {
	var h Hash
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	bz, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("invalid hex hash: %w", err)
	}
	if len(bz) > HashSize {
		return h, fmt.Errorf("%w: hex value longer than %d bytes", ErrInputLength, HashSize)
	}
	copy(h[HashSize-len(bz):], bz)
	return h, h.Validate()
}

// AmountHash zero-extends a u64 amount into a field element: the big-endian
// amount occupies the low 8 bytes, the high 24 bytes are zero.
func AmountHash(amount uint64) Hash {
	var h Hash
	binary.BigEndian.PutUint64(h[HashSize-AmountSize:], amount)
	return h
}

// RandomHash returns a random canonical Hash.
func RandomHash() Hash {
	return Hash(utils.RandElement())
}

func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// Validate reports ErrMalformedFieldElement when h is not strictly below the modulus.
func (h Hash) Validate() error {
	if _, err := utils.CanonicalElement(h[:]); err != nil {
		return fmt.Errorf("%w: 0x%x", ErrMalformedFieldElement, h[:])
	}
	return nil
}

// Element decodes h as a field element.
func (h Hash) Element() (fr.Element, error) {
	elem, err := utils.CanonicalElement(h[:])
	if err != nil {
		return elem, fmt.Errorf("%w: 0x%x", ErrMalformedFieldElement, h[:])
	}
	return elem, nil
}

func (h Hash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) String() string {
	return h.Hex()
}

// PathNode is one level of a membership proof. Side 0 means the running value is
// the left operand when combined with Sibling, any other value means it is the right one.
type PathNode struct {
	Sibling Hash
	Side    uint8
}

// IsRight reports whether the running value is the right operand at this level.
func (n PathNode) IsRight() bool {
	return n.Side != 0
}

// MerklePath is ordered from the leaf towards the root.
type MerklePath [Depth]PathNode

func (p *MerklePath) Validate() error {
	for i := range p {
		if err := p[i].Sibling.Validate(); err != nil {
			return fmt.Errorf("path level %d: %w", i, err)
		}
	}
	return nil
}

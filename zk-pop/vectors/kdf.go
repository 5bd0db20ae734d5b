package vectors

import (
	"golang.org/x/crypto/blake2s"

	"github.com/kysee/zkpop/utils"
	"github.com/kysee/zkpop/zk-pop/types"
)

var personalization = []byte("zkpop_ExpandSeed")

// expand is the BLAKE2s PRF^expand loop: block i is H(seed || label || i) with the
// counter starting at 1.
func expand(seed []byte, label string, outputLen int) []byte {
	var stream []byte
	for counter := byte(1); len(stream) < outputLen; counter++ {
		h, err := blake2s.New256(personalization)
		if err != nil {
			// only fails for keys longer than 32 bytes
			panic(err)
		}
		h.Write(seed)
		h.Write([]byte(label))
		h.Write([]byte{counter})
		stream = h.Sum(stream)
	}
	return stream[:outputLen]
}

// KDF derives a canonical field element from seed and label. 64 bytes are expanded
// and reduced so the result is close to uniform.
func KDF(seed []byte, label string) types.Hash {
	return types.Hash(utils.ReduceBytes(expand(seed, label, 2*types.HashSize)))
}

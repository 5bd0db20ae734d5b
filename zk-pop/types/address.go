package types

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
)

const (
	addrPrefix = "zp"
	addrVer    = 0x01
)

// EncodeAddress renders a recipient key or address hash in base58check with the "zp" prefix.
func EncodeAddress(h Hash) string {
	return addrPrefix + base58.CheckEncode(h[:], addrVer)
}

func DecodeAddress(addr string) (Hash, error) {
	if !strings.HasPrefix(addr, addrPrefix) {
		return ZeroHash, fmt.Errorf("wrong prefix: got(%s)", addr)
	}
	bz, ver, err := base58.CheckDecode(addr[len(addrPrefix):])
	if err != nil {
		return ZeroHash, err
	}
	if ver != addrVer {
		return ZeroHash, fmt.Errorf("wrong version: expected(%d), got(%d)", addrVer, ver)
	}
	return BytesToHash(bz)
}

// ParseHash accepts either a "zp" address or a hex string.
func ParseHash(s string) (Hash, error) {
	if strings.HasPrefix(s, addrPrefix) {
		return DecodeAddress(s)
	}
	return HexToHash(s)
}

package types

import (
	"fmt"
	"strings"
)

// Kind tags a predicate and its input variant.
type Kind uint8

const (
	KindMerkle Kind = iota + 1
	KindAudit
	KindNullifier
	KindTransfer
	KindWithdraw
	KindCondition
	KindSplit
	KindStream
)

var kindNames = map[Kind]string{
	KindMerkle:    "merkle",
	KindAudit:     "audit",
	KindNullifier: "nullifier",
	KindTransfer:  "transfer",
	KindWithdraw:  "withdraw",
	KindCondition: "zkcondition",
	KindSplit:     "zksplit",
	KindStream:    "zkstream",
}

// AllKinds lists every predicate in tag order.
func AllKinds() []Kind {
	return []Kind{KindMerkle, KindAudit, KindNullifier, KindTransfer, KindWithdraw, KindCondition, KindSplit, KindStream}
}

func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind accepts the host mode names, with or without the "zk" prefix.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if s == n || "zk"+s == n {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

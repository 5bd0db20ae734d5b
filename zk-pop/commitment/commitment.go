package commitment

import (
	"github.com/kysee/zkpop/zk-pop/hasher"
	"github.com/kysee/zkpop/zk-pop/types"
)

// CommitAmountFirst binds amount to partner with the amount as left operand.
// Transfer and withdraw notes are committed this way.
func CommitAmountFirst(e hasher.Engine, amount uint64, partner types.Hash) (types.Hash, error) {
	return e.Compress(types.AmountHash(amount), partner)
}

// CommitPartnerFirst binds amount to partner with the amount as right operand.
// Audit ids are committed this way.
func CommitPartnerFirst(e hasher.Engine, amount uint64, partner types.Hash) (types.Hash, error) {
	return hasher.CompressAmount(e, partner, amount)
}

func DeriveNullifier(e hasher.Engine, prior, secret types.Hash) (types.Hash, error) {
	return e.Compress(prior, secret)
}

// ViewBinding ties a note commitment to the view key of its auditor.
func ViewBinding(e hasher.Engine, noteCommitment, viewKey types.Hash) (types.Hash, error) {
	return e.Compress(noteCommitment, viewKey)
}

// AuditID is the id an auditor expects for a note disclosed to viewKey.
func AuditID(e hasher.Engine, noteCommitment, viewKey types.Hash, amount uint64) (types.Hash, error) {
	binding, err := ViewBinding(e, noteCommitment, viewKey)
	if err != nil {
		return types.ZeroHash, err
	}
	return CommitPartnerFirst(e, amount, binding)
}

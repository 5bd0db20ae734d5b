// Package predicate decides whether a claimed shielded transaction is valid.
//
// Every predicate computes all of its sub-checks and ANDs them, so the work done
// does not depend on which check fails. A semantically invalid transaction yields
// a journal with Valid == false. An error is returned only when an input is not a
// canonical field element, in which case no journal exists.
package predicate

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/kysee/zkpop/zk-pop/commitment"
	"github.com/kysee/zkpop/zk-pop/hasher"
	"github.com/kysee/zkpop/zk-pop/merkle"
	"github.com/kysee/zkpop/zk-pop/types"
)

// Evaluate dispatches in to the predicate of its kind.
func Evaluate(e hasher.Engine, in types.Input) (*types.Journal, error) {
	switch in := in.(type) {
	case *types.MerkleInput:
		return MerkleWitness(e, in)
	case *types.AuditInput:
		return Audit(e, in)
	case *types.NullifierInput:
		return Nullifier(e, in)
	case *types.TransferInput:
		return Transfer(e, in)
	case *types.WithdrawInput:
		return Withdraw(e, in)
	case *types.ConditionInput:
		return Condition(e, in)
	case *types.SplitInput:
		return Split(e, in)
	case *types.StreamInput:
		return Stream(e, in)
	default:
		return nil, fmt.Errorf("%w: %T", types.ErrUnknownKind, in)
	}
}

// MerkleWitness proves that Leaf is in the tree with root Root.
// The journal carries the root whether or not the path checks out.
func MerkleWitness(e hasher.Engine, in *types.MerkleInput) (*types.Journal, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ok, err := merkle.Verify(e, in.Leaf, in.Root, &in.Path)
	if err != nil {
		return nil, err
	}
	return &types.Journal{Kind: types.KindMerkle, Valid: ok, Root: in.Root}, nil
}

// Audit checks that AuditID discloses the note to the holder of ViewKey with a
// positive amount and a timestamp not in the future.
func Audit(e hasher.Engine, in *types.AuditInput) (*types.Journal, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	auditID, err := commitment.AuditID(e, in.NoteCommitment, in.ViewKey, in.Amount)
	if err != nil {
		return nil, err
	}

	amountOK := in.Amount > 0
	timeOK := in.Timestamp <= in.CurrentTime
	idOK := auditID == in.AuditID

	return &types.Journal{
		Kind:  types.KindAudit,
		Valid: amountOK && timeOK && idOK,
		Root:  in.MerkleRoot,
	}, nil
}

func Nullifier(e hasher.Engine, in *types.NullifierInput) (*types.Journal, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	nf, err := commitment.DeriveNullifier(e, in.NoteCommitment, in.Secret)
	if err != nil {
		return nil, err
	}

	noteOK := !in.NoteCommitment.IsZero()
	secretOK := !in.Secret.IsZero()

	return &types.Journal{
		Kind:      types.KindNullifier,
		Valid:     noteOK && secretOK,
		Nullifier: nf,
	}, nil
}

// spend is the part shared by Transfer and Withdraw: the input note must be in the
// tree and its nullifier is derived from the prior nullifier and the note secret.
func spend(e hasher.Engine, amount uint64, nullifier, secret, root types.Hash, path *types.MerklePath) (member bool, nf types.Hash, err error) {
	inC, err := commitment.CommitAmountFirst(e, amount, secret)
	if err != nil {
		return false, nf, err
	}
	member, err = merkle.Verify(e, inC, root, path)
	if err != nil {
		return false, nf, err
	}
	nf, err = commitment.DeriveNullifier(e, nullifier, secret)
	return member, nf, err
}

// Transfer spends a note in the tree into a note committed to RecipientPubkey for
// the same amount.
func Transfer(e hasher.Engine, in *types.TransferInput) (*types.Journal, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	member, nf, err := spend(e, in.InAmount, in.InNullifier, in.InSecret, in.MerkleRoot, &in.InPath)
	if err != nil {
		return nil, err
	}
	outC, err := commitment.CommitAmountFirst(e, in.InAmount, in.RecipientPubkey)
	if err != nil {
		return nil, err
	}

	amountOK := in.InAmount > 0
	outOK := outC == in.OutCommitment

	return &types.Journal{
		Kind:      types.KindTransfer,
		Valid:     amountOK && member && outOK,
		Nullifier: nf,
	}, nil
}

// Withdraw spends a note in the tree in full to RecipientAddress.
func Withdraw(e hasher.Engine, in *types.WithdrawInput) (*types.Journal, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	member, nf, err := spend(e, in.InAmount, in.InNullifier, in.InSecret, in.MerkleRoot, &in.InPath)
	if err != nil {
		return nil, err
	}

	amountOK := in.InAmount > 0
	fullOK := in.WithdrawalAmount == in.InAmount
	recipientOK := !in.RecipientAddress.IsZero()

	return &types.Journal{
		Kind:      types.KindWithdraw,
		Valid:     amountOK && fullOK && member && recipientOK,
		Nullifier: nf,
	}, nil
}

// Condition is a boolean gate: the type must be 0 or 1 and the value positive.
func Condition(_ hasher.Engine, in *types.ConditionInput) (*types.Journal, error) {
	typeOK := in.ConditionType <= 1
	valueOK := in.Value > 0
	return &types.Journal{Kind: types.KindCondition, Valid: typeOK && valueOK}, nil
}

// Split checks two distinct nonzero recipients sharing a positive total that
// fits in a u64.
func Split(_ hasher.Engine, in *types.SplitInput) (*types.Journal, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	a, b := in.Recipients[0], in.Recipients[1]
	recipientsOK := !a.IsZero() && !b.IsZero() && a != b

	sum := new(uint256.Int).Add(uint256.NewInt(in.Amounts[0]), uint256.NewInt(in.Amounts[1]))
	sumOK := sum.IsUint64() && !sum.IsZero()

	return &types.Journal{Kind: types.KindSplit, Valid: recipientsOK && sumOK}, nil
}

func Stream(_ hasher.Engine, in *types.StreamInput) (*types.Journal, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	amountOK := in.TotalAmount > 0
	idOK := !in.StreamID.IsZero()
	return &types.Journal{Kind: types.KindStream, Valid: amountOK && idOK}, nil
}

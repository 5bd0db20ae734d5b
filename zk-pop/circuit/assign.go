package circuit

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/kysee/zkpop/zk-pop/hasher"
	"github.com/kysee/zkpop/zk-pop/types"
)

func hashVar(h types.Hash) *big.Int {
	return new(big.Int).SetBytes(h[:])
}

func boolVar(b bool) int {
	if b {
		return 1
	}
	return 0
}

func assignPath(p *types.MerklePath, siblings, sides *[pathDepth]frontend.Variable) {
	for i := range p {
		siblings[i] = hashVar(p[i].Sibling)
		sides[i] = boolVar(p[i].IsRight())
	}
}

// UsesHash reports whether the circuit of kind k hashes.
func UsesHash(k types.Kind) bool {
	switch k {
	case types.KindCondition, types.KindSplit, types.KindStream:
		return false
	default:
		return true
	}
}

// New returns the blank circuit of kind k for compilation.
func New(k types.Kind, hk hasher.Kind) (frontend.Circuit, error) {
	if k.Valid() && UsesHash(k) && !HasGadget(hk) {
		return nil, fmt.Errorf("%w: %q", ErrNoGadget, string(hk))
	}
	switch k {
	case types.KindMerkle:
		return &MerkleCircuit{hash: hk}, nil
	case types.KindAudit:
		return &AuditCircuit{hash: hk}, nil
	case types.KindNullifier:
		return &NullifierCircuit{hash: hk}, nil
	case types.KindTransfer:
		return &TransferCircuit{hash: hk}, nil
	case types.KindWithdraw:
		return &WithdrawCircuit{hash: hk}, nil
	case types.KindCondition:
		return &ConditionCircuit{}, nil
	case types.KindSplit:
		return &SplitCircuit{}, nil
	case types.KindStream:
		return &StreamCircuit{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", types.ErrUnknownKind, uint8(k))
	}
}

// Assign builds the full witness of in together with the journal it produces.
func Assign(in types.Input, j *types.Journal, hk hasher.Kind) (frontend.Circuit, error) {
	if in.Kind() != j.Kind {
		return nil, fmt.Errorf("%w: input %s, journal %s", types.ErrKindMismatch, in.Kind(), j.Kind)
	}
	c, err := PublicAssignment(j, hk)
	if err != nil {
		return nil, err
	}

	switch in := in.(type) {
	case *types.MerkleInput:
		cc := c.(*MerkleCircuit)
		cc.Leaf = hashVar(in.Leaf)
		assignPath(&in.Path, &cc.Siblings, &cc.Sides)
	case *types.AuditInput:
		cc := c.(*AuditCircuit)
		cc.NoteCommitment = hashVar(in.NoteCommitment)
		cc.ViewKey = hashVar(in.ViewKey)
		cc.Amount = in.Amount
		cc.Timestamp = in.Timestamp
		cc.AuditID = hashVar(in.AuditID)
		cc.CurrentTime = in.CurrentTime
	case *types.NullifierInput:
		cc := c.(*NullifierCircuit)
		cc.NoteCommitment = hashVar(in.NoteCommitment)
		cc.Secret = hashVar(in.Secret)
	case *types.TransferInput:
		cc := c.(*TransferCircuit)
		cc.In = spendAssignment(in.InAmount, in.InNullifier, in.InSecret, in.MerkleRoot, &in.InPath)
		cc.OutCommitment = hashVar(in.OutCommitment)
		cc.RecipientPubkey = hashVar(in.RecipientPubkey)
	case *types.WithdrawInput:
		cc := c.(*WithdrawCircuit)
		cc.In = spendAssignment(in.InAmount, in.InNullifier, in.InSecret, in.MerkleRoot, &in.InPath)
		cc.RecipientAddress = hashVar(in.RecipientAddress)
		cc.WithdrawalAmount = in.WithdrawalAmount
	case *types.ConditionInput:
		cc := c.(*ConditionCircuit)
		cc.ConditionType = in.ConditionType
		cc.Value = in.Value
	case *types.SplitInput:
		cc := c.(*SplitCircuit)
		cc.Recipients = [2]frontend.Variable{hashVar(in.Recipients[0]), hashVar(in.Recipients[1])}
		cc.Amounts = [2]frontend.Variable{in.Amounts[0], in.Amounts[1]}
	case *types.StreamInput:
		cc := c.(*StreamCircuit)
		cc.StreamID = hashVar(in.StreamID)
		cc.TotalAmount = in.TotalAmount
	default:
		return nil, fmt.Errorf("%w: %T", types.ErrUnknownKind, in)
	}
	return c, nil
}

func spendAssignment(amount uint64, nullifier, secret, root types.Hash, path *types.MerklePath) SpendNote {
	s := SpendNote{
		InAmount:    amount,
		InNullifier: hashVar(nullifier),
		InSecret:    hashVar(secret),
		MerkleRoot:  hashVar(root),
	}
	assignPath(path, &s.Siblings, &s.Sides)
	return s
}

// PublicAssignment fills only the public inputs of the circuit, from the journal.
func PublicAssignment(j *types.Journal, hk hasher.Kind) (frontend.Circuit, error) {
	c, err := New(j.Kind, hk)
	if err != nil {
		return nil, err
	}
	valid := boolVar(j.Valid)

	switch cc := c.(type) {
	case *MerkleCircuit:
		cc.Root, cc.Valid = hashVar(j.Root), valid
	case *AuditCircuit:
		cc.Valid, cc.MerkleRoot = valid, hashVar(j.Root)
	case *NullifierCircuit:
		cc.Nullifier, cc.Valid = hashVar(j.Nullifier), valid
	case *TransferCircuit:
		cc.Nullifier, cc.Valid = hashVar(j.Nullifier), valid
	case *WithdrawCircuit:
		cc.Nullifier, cc.Valid = hashVar(j.Nullifier), valid
	case *ConditionCircuit:
		cc.Valid = valid
	case *SplitCircuit:
		cc.Valid = valid
	case *StreamCircuit:
		cc.Valid = valid
	}
	return c, nil
}

// Package circuit expresses each predicate as a gnark circuit. The journal fields
// are the public inputs and are asserted equal to the values the circuit
// computes, so a proof attests to a journal whether it reports valid or not.
package circuit

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/kysee/zkpop/zk-pop/hasher"
	"github.com/kysee/zkpop/zk-pop/types"
)

const pathDepth = types.Depth

var twoTo64 = new(big.Int).Lsh(big.NewInt(1), 64)

type MerkleCircuit struct {
	hash hasher.Kind

	Leaf     frontend.Variable
	Siblings [pathDepth]frontend.Variable
	Sides    [pathDepth]frontend.Variable

	Root  frontend.Variable `gnark:",public"`
	Valid frontend.Variable `gnark:",public"`
}

func (cc *MerkleCircuit) Define(api frontend.API) error {
	c, err := newCompressor(api, cc.hash)
	if err != nil {
		return err
	}
	root := c.rootOf(cc.Leaf, &cc.Siblings, &cc.Sides)
	api.AssertIsEqual(cc.Valid, isEqual(api, root, cc.Root))
	return nil
}

// AuditCircuit leaves MerkleRoot unconstrained; it is only carried to the journal.
type AuditCircuit struct {
	hash hasher.Kind

	NoteCommitment frontend.Variable
	ViewKey        frontend.Variable
	Amount         frontend.Variable
	Timestamp      frontend.Variable
	AuditID        frontend.Variable
	CurrentTime    frontend.Variable

	Valid      frontend.Variable `gnark:",public"`
	MerkleRoot frontend.Variable `gnark:",public"`
}

func (cc *AuditCircuit) Define(api frontend.API) error {
	c, err := newCompressor(api, cc.hash)
	if err != nil {
		return err
	}
	u64(api, cc.Amount)
	u64(api, cc.Timestamp)
	u64(api, cc.CurrentTime)

	binding := c.compress(cc.NoteCommitment, cc.ViewKey)
	auditID := c.compress(binding, cc.Amount)

	valid := and(api,
		isNonZero(api, cc.Amount),
		lessOrEqual(api, cc.Timestamp, cc.CurrentTime),
		isEqual(api, auditID, cc.AuditID),
	)
	api.AssertIsEqual(cc.Valid, valid)
	return nil
}

type NullifierCircuit struct {
	hash hasher.Kind

	NoteCommitment frontend.Variable
	Secret         frontend.Variable

	Nullifier frontend.Variable `gnark:",public"`
	Valid     frontend.Variable `gnark:",public"`
}

func (cc *NullifierCircuit) Define(api frontend.API) error {
	c, err := newCompressor(api, cc.hash)
	if err != nil {
		return err
	}
	api.AssertIsEqual(cc.Nullifier, c.compress(cc.NoteCommitment, cc.Secret))
	valid := and(api, isNonZero(api, cc.NoteCommitment), isNonZero(api, cc.Secret))
	api.AssertIsEqual(cc.Valid, valid)
	return nil
}

// SpendNote is shared by transfer and withdraw. It returns the membership bit of
// the input note and its nullifier.
type SpendNote struct {
	InAmount    frontend.Variable
	InNullifier frontend.Variable
	InSecret    frontend.Variable
	Siblings    [pathDepth]frontend.Variable
	Sides       [pathDepth]frontend.Variable
	MerkleRoot  frontend.Variable
}

func (s *SpendNote) define(api frontend.API, c *compressor) (member, nullifier frontend.Variable) {
	u64(api, s.InAmount)
	inC := c.compress(s.InAmount, s.InSecret)
	root := c.rootOf(inC, &s.Siblings, &s.Sides)
	member = isEqual(api, root, s.MerkleRoot)
	nullifier = c.compress(s.InNullifier, s.InSecret)
	return member, nullifier
}

type TransferCircuit struct {
	hash hasher.Kind

	In              SpendNote
	OutCommitment   frontend.Variable
	RecipientPubkey frontend.Variable

	Nullifier frontend.Variable `gnark:",public"`
	Valid     frontend.Variable `gnark:",public"`
}

func (cc *TransferCircuit) Define(api frontend.API) error {
	c, err := newCompressor(api, cc.hash)
	if err != nil {
		return err
	}
	member, nf := cc.In.define(api, c)
	api.AssertIsEqual(cc.Nullifier, nf)

	outC := c.compress(cc.In.InAmount, cc.RecipientPubkey)
	valid := and(api,
		isNonZero(api, cc.In.InAmount),
		member,
		isEqual(api, outC, cc.OutCommitment),
	)
	api.AssertIsEqual(cc.Valid, valid)
	return nil
}

type WithdrawCircuit struct {
	hash hasher.Kind

	In               SpendNote
	RecipientAddress frontend.Variable
	WithdrawalAmount frontend.Variable

	Nullifier frontend.Variable `gnark:",public"`
	Valid     frontend.Variable `gnark:",public"`
}

func (cc *WithdrawCircuit) Define(api frontend.API) error {
	c, err := newCompressor(api, cc.hash)
	if err != nil {
		return err
	}
	u64(api, cc.WithdrawalAmount)
	member, nf := cc.In.define(api, c)
	api.AssertIsEqual(cc.Nullifier, nf)

	valid := and(api,
		isNonZero(api, cc.In.InAmount),
		isEqual(api, cc.WithdrawalAmount, cc.In.InAmount),
		member,
		isNonZero(api, cc.RecipientAddress),
	)
	api.AssertIsEqual(cc.Valid, valid)
	return nil
}

type ConditionCircuit struct {
	ConditionType frontend.Variable
	Value         frontend.Variable

	Valid frontend.Variable `gnark:",public"`
}

func (cc *ConditionCircuit) Define(api frontend.API) error {
	_ = api.ToBinary(cc.ConditionType, 8)
	u64(api, cc.Value)

	// t*(t-1) vanishes only for t in {0, 1}
	typeOK := api.IsZero(api.Mul(cc.ConditionType, api.Sub(cc.ConditionType, 1)))
	api.AssertIsEqual(cc.Valid, and(api, typeOK, isNonZero(api, cc.Value)))
	return nil
}

type SplitCircuit struct {
	Recipients [2]frontend.Variable
	Amounts    [2]frontend.Variable

	Valid frontend.Variable `gnark:",public"`
}

func (cc *SplitCircuit) Define(api frontend.API) error {
	u64(api, cc.Amounts[0])
	u64(api, cc.Amounts[1])

	a, b := cc.Recipients[0], cc.Recipients[1]
	recipientsOK := and(api,
		isNonZero(api, a),
		isNonZero(api, b),
		api.Sub(1, isEqual(api, a, b)),
	)

	sum := api.Add(cc.Amounts[0], cc.Amounts[1])
	bits := api.ToBinary(sum, 65)
	noOverflow := api.Sub(1, bits[64])

	api.AssertIsEqual(cc.Valid, and(api, recipientsOK, noOverflow, isNonZero(api, sum)))
	return nil
}

type StreamCircuit struct {
	StreamID    frontend.Variable
	TotalAmount frontend.Variable

	Valid frontend.Variable `gnark:",public"`
}

func (cc *StreamCircuit) Define(api frontend.API) error {
	u64(api, cc.TotalAmount)
	api.AssertIsEqual(cc.Valid, and(api, isNonZero(api, cc.TotalAmount), isNonZero(api, cc.StreamID)))
	return nil
}

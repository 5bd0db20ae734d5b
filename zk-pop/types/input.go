package types

import "fmt"

// Input is the tagged variant of predicate inputs. Each variant keeps the field
// order of its wire read sequence.
type Input interface {
	Kind() Kind
	// Validate checks every field element for canonical encoding.
	Validate() error
	MarshalBinary() ([]byte, error)
}

func validateHashes(names []string, hs ...Hash) error {
	for i, h := range hs {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("%s: %w", names[i], err)
		}
	}
	return nil
}

// MerkleInput proves membership of Leaf under Root.
type MerkleInput struct {
	Root Hash
	Leaf Hash
	Path MerklePath
}

func (in *MerkleInput) Kind() Kind { return KindMerkle }

func (in *MerkleInput) Validate() error {
	if err := validateHashes([]string{"root", "leaf"}, in.Root, in.Leaf); err != nil {
		return err
	}
	return in.Path.Validate()
}

func (in *MerkleInput) MarshalBinary() ([]byte, error) {
	e := newEncoder(KindMerkle)
	e.hash(in.Root)
	e.hash(in.Leaf)
	e.path(&in.Path)
	return e.buf, nil
}

// AuditInput discloses a note to an auditor holding its view key.
// Purpose is carried for the auditor's records and does not take part in any check.
// MerkleRoot is passed through to the journal unchecked.
type AuditInput struct {
	NoteCommitment Hash
	ViewKey        Hash
	Amount         uint64
	Timestamp      uint64
	Purpose        uint64
	AuditID        Hash
	MerkleRoot     Hash
	CurrentTime    uint64
}

func (in *AuditInput) Kind() Kind { return KindAudit }

func (in *AuditInput) Validate() error {
	return validateHashes(
		[]string{"noteCommitment", "viewKey", "auditId", "merkleRoot"},
		in.NoteCommitment, in.ViewKey, in.AuditID, in.MerkleRoot,
	)
}

func (in *AuditInput) MarshalBinary() ([]byte, error) {
	e := newEncoder(KindAudit)
	e.hash(in.NoteCommitment)
	e.hash(in.ViewKey)
	e.u64(in.Amount)
	e.u64(in.Timestamp)
	e.u64(in.Purpose)
	e.hash(in.AuditID)
	e.hash(in.MerkleRoot)
	e.u64(in.CurrentTime)
	return e.buf, nil
}

type NullifierInput struct {
	NoteCommitment Hash
	Secret         Hash
}

func (in *NullifierInput) Kind() Kind { return KindNullifier }

func (in *NullifierInput) Validate() error {
	return validateHashes([]string{"noteCommitment", "secret"}, in.NoteCommitment, in.Secret)
}

func (in *NullifierInput) MarshalBinary() ([]byte, error) {
	e := newEncoder(KindNullifier)
	e.hash(in.NoteCommitment)
	e.hash(in.Secret)
	return e.buf, nil
}

// TransferInput spends the note (InAmount, InSecret) into a note for RecipientPubkey.
type TransferInput struct {
	InAmount        uint64
	InNullifier     Hash
	InSecret        Hash
	InPath          MerklePath
	OutCommitment   Hash
	MerkleRoot      Hash
	RecipientPubkey Hash
}

func (in *TransferInput) Kind() Kind { return KindTransfer }

func (in *TransferInput) Validate() error {
	err := validateHashes(
		[]string{"inNullifier", "inSecret", "outCommitment", "merkleRoot", "recipientPubkey"},
		in.InNullifier, in.InSecret, in.OutCommitment, in.MerkleRoot, in.RecipientPubkey,
	)
	if err != nil {
		return err
	}
	return in.InPath.Validate()
}

func (in *TransferInput) MarshalBinary() ([]byte, error) {
	e := newEncoder(KindTransfer)
	e.u64(in.InAmount)
	e.hash(in.InNullifier)
	e.hash(in.InSecret)
	e.path(&in.InPath)
	e.hash(in.OutCommitment)
	e.hash(in.MerkleRoot)
	e.hash(in.RecipientPubkey)
	return e.buf, nil
}

// WithdrawInput spends the note (InAmount, InSecret) out of the shielded pool.
type WithdrawInput struct {
	InAmount         uint64
	InNullifier      Hash
	InSecret         Hash
	InPath           MerklePath
	MerkleRoot       Hash
	RecipientAddress Hash
	WithdrawalAmount uint64
}

func (in *WithdrawInput) Kind() Kind { return KindWithdraw }

func (in *WithdrawInput) Validate() error {
	err := validateHashes(
		[]string{"inNullifier", "inSecret", "merkleRoot", "recipientAddress"},
		in.InNullifier, in.InSecret, in.MerkleRoot, in.RecipientAddress,
	)
	if err != nil {
		return err
	}
	return in.InPath.Validate()
}

func (in *WithdrawInput) MarshalBinary() ([]byte, error) {
	e := newEncoder(KindWithdraw)
	e.u64(in.InAmount)
	e.hash(in.InNullifier)
	e.hash(in.InSecret)
	e.path(&in.InPath)
	e.hash(in.MerkleRoot)
	e.hash(in.RecipientAddress)
	e.u64(in.WithdrawalAmount)
	return e.buf, nil
}

// ConditionInput is a generic boolean gate, not bound to any note.
type ConditionInput struct {
	ConditionType uint8
	Value         uint64
}

func (in *ConditionInput) Kind() Kind { return KindCondition }

func (in *ConditionInput) Validate() error { return nil }

func (in *ConditionInput) MarshalBinary() ([]byte, error) {
	e := newEncoder(KindCondition)
	e.u8(in.ConditionType)
	e.u64(in.Value)
	return e.buf, nil
}

type SplitInput struct {
	Recipients [2]Hash
	Amounts    [2]uint64
}

func (in *SplitInput) Kind() Kind { return KindSplit }

func (in *SplitInput) Validate() error {
	return validateHashes([]string{"recipients[0]", "recipients[1]"}, in.Recipients[0], in.Recipients[1])
}

func (in *SplitInput) MarshalBinary() ([]byte, error) {
	e := newEncoder(KindSplit)
	e.hash(in.Recipients[0])
	e.hash(in.Recipients[1])
	e.u64(in.Amounts[0])
	e.u64(in.Amounts[1])
	return e.buf, nil
}

type StreamInput struct {
	StreamID    Hash
	TotalAmount uint64
}

func (in *StreamInput) Kind() Kind { return KindStream }

func (in *StreamInput) Validate() error {
	return validateHashes([]string{"streamId"}, in.StreamID)
}

func (in *StreamInput) MarshalBinary() ([]byte, error) {
	e := newEncoder(KindStream)
	e.hash(in.StreamID)
	e.u64(in.TotalAmount)
	return e.buf, nil
}

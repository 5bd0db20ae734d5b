// Package vectors builds deterministic, self-consistent inputs for every predicate,
// covering both accepted and rejected transactions.
package vectors

import (
	"fmt"

	"github.com/kysee/zkpop/zk-pop/commitment"
	"github.com/kysee/zkpop/zk-pop/hasher"
	"github.com/kysee/zkpop/zk-pop/merkle"
	"github.com/kysee/zkpop/zk-pop/types"
)

// DefaultCurrentTime is the clock audits are checked against unless configured.
const DefaultCurrentTime uint64 = 1234567890

const decoys = 8

type Vector struct {
	Name  string
	Input types.Input
	// Valid is the expected validity bit of the journal.
	Valid bool
}

// Suite derives every secret from a seed and keeps the notes it spends in a
// commitment tree.
type Suite struct {
	engine      hasher.Engine
	seed        []byte
	currentTime uint64
	tree        *merkle.Tree
}

type note struct {
	amount uint64
	secret types.Hash
	path   types.MerklePath
}

func NewSuite(e hasher.Engine, seed []byte, currentTime uint64) (*Suite, error) {
	tree, err := merkle.NewTree(e)
	if err != nil {
		return nil, err
	}
	s := &Suite{
		engine:      e,
		seed:        append([]byte(nil), seed...),
		currentTime: currentTime,
		tree:        tree,
	}
	for i := 0; i < decoys; i++ {
		if _, err := tree.Insert(s.derive(fmt.Sprintf("decoy/%d", i))); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Suite) derive(label string) types.Hash {
	return KDF(s.seed, label)
}

// Tree is the commitment tree the suite's notes live in.
func (s *Suite) Tree() *merkle.Tree {
	return s.tree
}

func (s *Suite) CurrentTime() uint64 {
	return s.currentTime
}

// addNote commits (amount, secret) into the tree. Its path is filled in by pathOf
// once every note of a case set is inserted.
func (s *Suite) addNote(amount uint64, label string) (*note, error) {
	n := &note{amount: amount, secret: s.derive(label + "/secret")}
	c, err := commitment.CommitAmountFirst(s.engine, amount, n.secret)
	if err != nil {
		return nil, err
	}
	if _, err := s.tree.Insert(c); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Suite) pathOf(n *note) error {
	c, err := commitment.CommitAmountFirst(s.engine, n.amount, n.secret)
	if err != nil {
		return err
	}
	pos, err := s.tree.IndexOf(c)
	if err != nil {
		return err
	}
	n.path, err = s.tree.Path(pos)
	return err
}

// Vectors returns the named cases of predicate k.
func (s *Suite) Vectors(k types.Kind) ([]Vector, error) {
	switch k {
	case types.KindMerkle:
		return s.merkle()
	case types.KindAudit:
		return s.audit()
	case types.KindNullifier:
		return s.nullifier(), nil
	case types.KindTransfer:
		return s.transfer()
	case types.KindWithdraw:
		return s.withdraw()
	case types.KindCondition:
		return condition(), nil
	case types.KindSplit:
		return split(), nil
	case types.KindStream:
		return stream(), nil
	default:
		return nil, fmt.Errorf("%w: %d", types.ErrUnknownKind, uint8(k))
	}
}

func mustHex(s string) types.Hash {
	h, err := types.HexToHash(s)
	if err != nil {
		panic(err)
	}
	return h
}

func (s *Suite) merkle() ([]Vector, error) {
	n, err := s.addNote(10, "merkle/0")
	if err != nil {
		return nil, err
	}
	if err := s.pathOf(n); err != nil {
		return nil, err
	}
	leaf, err := commitment.CommitAmountFirst(s.engine, n.amount, n.secret)
	if err != nil {
		return nil, err
	}

	var zeroPath, onesPath types.MerklePath
	var ones types.Hash
	for i := range ones {
		ones[i] = 0x01
	}
	for i := range onesPath {
		onesPath[i] = types.PathNode{Sibling: ones, Side: 1}
	}

	return []Vector{
		{Name: "member", Input: &types.MerkleInput{Root: s.tree.Root(), Leaf: leaf, Path: n.path}, Valid: true},
		{Name: "stale root", Input: &types.MerkleInput{Root: s.derive("merkle/stale"), Leaf: leaf, Path: n.path}},
		{Name: "zero path", Input: &types.MerkleInput{Root: mustHex("0x1234567890abcdef"), Leaf: mustHex("0xfedcba0987654321"), Path: zeroPath}},
		{Name: "right-hand path", Input: &types.MerkleInput{Root: mustHex("0xabcdefabcdefabcd"), Leaf: mustHex("0x1111111111111111"), Path: onesPath}},
	}, nil
}

// before returns the time d seconds before the suite clock, floored at zero.
func (s *Suite) before(d uint64) uint64 {
	if d > s.currentTime {
		return 0
	}
	return s.currentTime - d
}

func (s *Suite) audit() ([]Vector, error) {
	type auditCase struct {
		name        string
		note, vk    types.Hash
		amount      uint64
		timestamp   uint64
		purpose     uint64
		root        types.Hash
		keepAuditID bool
		valid       bool
	}
	note0, vk0, root0 := mustHex("0x11111111111111111111111111111111"), mustHex("0x22222222222222222222222222222222"), mustHex("0x33333333333333333333333333333333")
	note1, vk1, root1 := mustHex("0xabcdefabcdefabcdefabcdefabcdefab"), mustHex("0x44444444444444444444444444444444"), mustHex("0x55555555555555555555555555555555")
	cases := []auditCase{
		{"disclosed", note0, vk0, 100, s.before(7890), 1, root0, true, true},
		{"disclosed earlier", note1, vk1, 200, s.before(17890), 2, root1, true, true},
		{"placeholder audit id", note0, vk0, 100, s.before(7890), 1, root0, false, false},
		{"future timestamp", note0, vk0, 100, s.currentTime + 1, 1, root0, true, false},
		{"zero amount", note0, vk0, 0, s.before(7890), 1, root0, true, false},
	}

	vs := make([]Vector, 0, len(cases))
	for _, c := range cases {
		in := &types.AuditInput{
			NoteCommitment: c.note,
			ViewKey:        c.vk,
			Amount:         c.amount,
			Timestamp:      c.timestamp,
			Purpose:        c.purpose,
			MerkleRoot:     c.root,
			CurrentTime:    s.currentTime,
		}
		if c.keepAuditID {
			id, err := commitment.AuditID(s.engine, c.note, c.vk, c.amount)
			if err != nil {
				return nil, err
			}
			in.AuditID = id
		}
		vs = append(vs, Vector{Name: c.name, Input: in, Valid: c.valid})
	}
	return vs, nil
}

func (s *Suite) nullifier() []Vector {
	return []Vector{
		{Name: "nonzero", Input: &types.NullifierInput{NoteCommitment: mustHex("0xdddd"), Secret: mustHex("0xeeee")}, Valid: true},
		{Name: "derived", Input: &types.NullifierInput{NoteCommitment: s.derive("nullifier/note"), Secret: s.derive("nullifier/secret")}, Valid: true},
		{Name: "zero commitment", Input: &types.NullifierInput{Secret: mustHex("0xeeee")}},
		{Name: "zero secret", Input: &types.NullifierInput{NoteCommitment: mustHex("0xdddd")}},
	}
}

func (s *Suite) transfer() ([]Vector, error) {
	type transferCase struct {
		name     string
		amount   uint64
		sender   types.Hash
		receiver types.Hash
		valid    bool
	}
	// the sender key is the note secret, the receiver key the recipient of the new note
	cases := []transferCase{
		{"spend", 100, mustHex("0xaaaa"), mustHex("0xbbbb"), true},
		{"zero amount", 0, mustHex("0xaaaa"), mustHex("0xbbbb"), false},
		{"same sender and receiver", 50, mustHex("0xcccc"), mustHex("0xcccc"), true},
	}

	notes := make([]*note, len(cases))
	for i, c := range cases {
		n := &note{amount: c.amount, secret: c.sender}
		cm, err := commitment.CommitAmountFirst(s.engine, n.amount, n.secret)
		if err != nil {
			return nil, err
		}
		if _, err := s.tree.Insert(cm); err != nil {
			return nil, err
		}
		notes[i] = n
	}

	vs := make([]Vector, 0, len(cases)+1)
	for i, c := range cases {
		n := notes[i]
		if err := s.pathOf(n); err != nil {
			return nil, err
		}
		outC, err := commitment.CommitAmountFirst(s.engine, c.amount, c.receiver)
		if err != nil {
			return nil, err
		}
		vs = append(vs, Vector{
			Name: c.name,
			Input: &types.TransferInput{
				InAmount:        c.amount,
				InNullifier:     s.derive(fmt.Sprintf("transfer/%d/nullifier", i)),
				InSecret:        n.secret,
				InPath:          n.path,
				OutCommitment:   outC,
				MerkleRoot:      s.tree.Root(),
				RecipientPubkey: c.receiver,
			},
			Valid: c.valid,
		})
	}

	// an output note for someone other than the named recipient
	forged := *vs[0].Input.(*types.TransferInput)
	forged.RecipientPubkey = s.derive("transfer/forged")
	vs = append(vs, Vector{Name: "forged output", Input: &forged})
	return vs, nil
}

func (s *Suite) withdraw() ([]Vector, error) {
	n50, err := s.addNote(50, "withdraw/50")
	if err != nil {
		return nil, err
	}
	n0, err := s.addNote(0, "withdraw/0")
	if err != nil {
		return nil, err
	}
	for _, n := range []*note{n50, n0} {
		if err := s.pathOf(n); err != nil {
			return nil, err
		}
	}

	mk := func(n *note, withdrawal uint64, recipient types.Hash) *types.WithdrawInput {
		return &types.WithdrawInput{
			InAmount:         n.amount,
			InNullifier:      s.derive("withdraw/nullifier"),
			InSecret:         n.secret,
			InPath:           n.path,
			MerkleRoot:       s.tree.Root(),
			RecipientAddress: recipient,
			WithdrawalAmount: withdrawal,
		}
	}
	recipient := mustHex("0xcccc")

	return []Vector{
		{Name: "full withdrawal", Input: mk(n50, 50, recipient), Valid: true},
		{Name: "zero amount", Input: mk(n0, 0, recipient)},
		{Name: "zero recipient", Input: mk(n50, 50, types.ZeroHash)},
		{Name: "partial withdrawal", Input: mk(n50, 20, recipient)},
	}, nil
}

func condition() []Vector {
	return []Vector{
		{Name: "type 0", Input: &types.ConditionInput{ConditionType: 0, Value: 12345}, Valid: true},
		{Name: "type 1", Input: &types.ConditionInput{ConditionType: 1, Value: 1}, Valid: true},
		{Name: "type 2", Input: &types.ConditionInput{ConditionType: 2, Value: 100}},
		{Name: "zero value", Input: &types.ConditionInput{ConditionType: 0, Value: 0}},
	}
}

func split() []Vector {
	a, b := mustHex("0x1111"), mustHex("0x2222")
	return []Vector{
		{Name: "distinct", Input: &types.SplitInput{Recipients: [2]types.Hash{a, b}, Amounts: [2]uint64{60, 40}}, Valid: true},
		{Name: "duplicate recipient", Input: &types.SplitInput{Recipients: [2]types.Hash{a, a}, Amounts: [2]uint64{60, 40}}},
		{Name: "zero recipient", Input: &types.SplitInput{Recipients: [2]types.Hash{a, types.ZeroHash}, Amounts: [2]uint64{60, 40}}},
		{Name: "zero total", Input: &types.SplitInput{Recipients: [2]types.Hash{a, b}, Amounts: [2]uint64{0, 0}}},
		{Name: "overflow", Input: &types.SplitInput{Recipients: [2]types.Hash{a, b}, Amounts: [2]uint64{^uint64(0), 1}}},
	}
}

func stream() []Vector {
	id := mustHex("0x3333")
	return []Vector{
		{Name: "funded", Input: &types.StreamInput{StreamID: id, TotalAmount: 1000}, Valid: true},
		{Name: "zero amount", Input: &types.StreamInput{StreamID: id, TotalAmount: 0}},
		{Name: "zero id", Input: &types.StreamInput{TotalAmount: 1000}},
	}
}

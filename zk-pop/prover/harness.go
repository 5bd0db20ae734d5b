// Package prover drives gnark over the predicate circuits: it evaluates a request
// natively, proves the resulting journal and verifies receipts.
package prover

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/constraint/solver"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/rs/zerolog"

	"github.com/kysee/zkpop/zk-pop/circuit"
	"github.com/kysee/zkpop/zk-pop/hasher"
	"github.com/kysee/zkpop/zk-pop/predicate"
	"github.com/kysee/zkpop/zk-pop/types"
)

// Scheme is the proving system a harness uses.
type Scheme string

const (
	Groth16 Scheme = "groth16"
	Plonk   Scheme = "plonk"
)

var (
	ErrUnknownScheme  = errors.New("unknown proving scheme")
	ErrReceiptHarness = errors.New("receipt was produced by a different harness")
	ErrMalformedProof = errors.New("malformed proof")
	ErrProofRejected  = errors.New("proof rejected")
	ErrMissingKeys    = errors.New("no persisted keys for circuit")
)

func ParseScheme(s string) (Scheme, error) {
	switch sc := Scheme(strings.ToLower(strings.TrimSpace(s))); sc {
	case Groth16, Plonk:
		return sc, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
	}
}

type compiled struct {
	ccs  constraint.ConstraintSystem
	keys keyPair
}

// Harness compiles each circuit once, on first use.
type Harness struct {
	scheme   Scheme
	engine   hasher.Engine
	keyDir   string
	loadOnly bool
	logger   zerolog.Logger

	mtx      sync.Mutex
	circuits map[types.Kind]*compiled
}

type Option func(*Harness)

// WithLogger sets the logger used by the harness and the gnark solver.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithKeyDir persists proving and verifying keys under dir so that receipts can
// be verified by another process.
func WithKeyDir(dir string) Option {
	return func(h *Harness) { h.keyDir = dir }
}

// WithLoadOnly restricts the harness to keys already under the key directory;
// it never runs a setup.
func WithLoadOnly() Option {
	return func(h *Harness) { h.loadOnly = true }
}

func New(scheme Scheme, e hasher.Engine, opts ...Option) (*Harness, error) {
	if _, err := ParseScheme(string(scheme)); err != nil {
		return nil, err
	}
	h := &Harness{
		scheme:   scheme,
		engine:   e,
		logger:   zerolog.Nop(),
		circuits: make(map[types.Kind]*compiled),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

func (h *Harness) Scheme() Scheme { return h.scheme }

func (h *Harness) Engine() hasher.Engine { return h.engine }

func (h *Harness) keyPaths(k types.Kind) (string, string) {
	if h.keyDir == "" {
		return "", ""
	}
	base := filepath.Join(h.keyDir, fmt.Sprintf("%s-%s-%s", k, h.engine.Kind(), h.scheme))
	return base + ".pk", base + ".vk"
}

func (h *Harness) compile(k types.Kind) (*compiled, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if c, ok := h.circuits[k]; ok {
		return c, nil
	}

	blank, err := circuit.New(k, h.engine.Kind())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var builder frontend.NewBuilder = r1cs.NewBuilder
	if h.scheme == Plonk {
		builder = scs.NewBuilder
	}
	// the audit root is carried to the journal without constraints
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), builder, blank, frontend.IgnoreUnconstrainedInputs())
	if err != nil {
		return nil, fmt.Errorf("compile %s circuit: %w", k, err)
	}

	pkPath, vkPath := h.keyPaths(k)
	keys, loaded, err := setupOrLoad(h.scheme, ccs, pkPath, vkPath, h.loadOnly)
	if err != nil {
		return nil, fmt.Errorf("setup %s circuit: %w", k, err)
	}

	h.logger.Debug().
		Stringer("kind", k).
		Str("scheme", string(h.scheme)).
		Int("constraints", ccs.GetNbConstraints()).
		Bool("keysLoaded", loaded).
		Dur("elapsed", time.Since(start)).
		Msg("circuit ready")

	c := &compiled{ccs: ccs, keys: keys}
	h.circuits[k] = c
	return c, nil
}

// Setup compiles the circuits of kinds ahead of the first request.
func (h *Harness) Setup(kinds ...types.Kind) error {
	for _, k := range kinds {
		if _, err := h.compile(k); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate runs the predicate natively without producing a proof.
func (h *Harness) Evaluate(req *types.Request) (*types.Journal, error) {
	in, err := req.Input()
	if err != nil {
		return nil, err
	}
	return predicate.Evaluate(h.engine, in)
}

// Prove evaluates the request and proves the journal it yields, valid or not.
func (h *Harness) Prove(req *types.Request) (*types.Receipt, error) {
	in, err := req.Input()
	if err != nil {
		return nil, err
	}
	j, err := predicate.Evaluate(h.engine, in)
	if err != nil {
		return nil, err
	}

	c, err := h.compile(req.Kind)
	if err != nil {
		return nil, err
	}

	assignment, err := circuit.Assign(in, j, h.engine.Kind())
	if err != nil {
		return nil, err
	}
	wtn, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	proof, err := c.keys.prove(
		c.ccs,
		wtn,
		backend.WithSolverOptions(
			solver.WithLogger(h.logger),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("prove %s: %w", req.Kind, err)
	}

	h.logger.Info().
		Stringer("kind", req.Kind).
		Bool("valid", j.Valid).
		Int("proofSize", len(proof)).
		Dur("elapsed", time.Since(start)).
		Msg("proof generated")

	return &types.Receipt{
		Kind:    req.Kind,
		Hash:    string(h.engine.Kind()),
		Backend: string(h.scheme),
		Journal: j.Bytes(),
		Proof:   proof,
	}, nil
}

// Verify checks the receipt proof against its journal and returns the journal.
// A verified journal may still report an invalid transaction.
func (h *Harness) Verify(rc *types.Receipt) (*types.Journal, error) {
	if rc.Hash != string(h.engine.Kind()) || rc.Backend != string(h.scheme) {
		return nil, fmt.Errorf("%w: %s/%s, harness %s/%s", ErrReceiptHarness, rc.Hash, rc.Backend, h.engine.Kind(), h.scheme)
	}
	j, err := rc.DecodedJournal()
	if err != nil {
		return nil, err
	}

	c, err := h.compile(rc.Kind)
	if err != nil {
		return nil, err
	}

	assignment, err := circuit.PublicAssignment(j, h.engine.Kind())
	if err != nil {
		return nil, err
	}
	pubWtn, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return nil, err
	}
	if err := c.keys.verify(rc.Proof, pubWtn); err != nil {
		if errors.Is(err, ErrMalformedProof) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrProofRejected, err)
	}

	h.logger.Debug().Stringer("journal", j).Msg("receipt verified")
	return j, nil
}

// ExportSolidity writes a Solidity verifier for the circuit of kind k.
func (h *Harness) ExportSolidity(k types.Kind, w io.Writer) error {
	c, err := h.compile(k)
	if err != nil {
		return err
	}
	return c.keys.exportSolidity(w)
}

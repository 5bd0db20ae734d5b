package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kysee/zkpop/zk-pop/commitment"
	"github.com/kysee/zkpop/zk-pop/hasher"
	"github.com/kysee/zkpop/zk-pop/prover"
	"github.com/kysee/zkpop/zk-pop/types"
	"github.com/kysee/zkpop/zk-pop/vectors"
)

func readRequest(kindArg, path string) (*types.Request, error) {
	k, err := types.ParseKind(kindArg)
	if err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &types.Request{Kind: k, Payload: payload}, nil
}

func printJournal(cmd *cobra.Command, j *types.Journal) {
	fmt.Fprintln(cmd.OutOrStdout(), j.String())
	fmt.Fprintln(cmd.OutOrStdout(), "journal: 0x"+hex.EncodeToString(j.Bytes()))
}

var evalCmd = &cobra.Command{
	Use:   "eval <kind> <input>",
	Short: "Evaluate a raw predicate input without proving",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := readRequest(args[0], args[1])
		if err != nil {
			return err
		}
		h, err := cfg.Harness(log)
		if err != nil {
			return err
		}
		j, err := h.Evaluate(req)
		if err != nil {
			return err
		}
		printJournal(cmd, j)
		return nil
	},
}

var proveCmd = &cobra.Command{
	Use:   "prove <kind> <input> <receipt>",
	Short: "Prove a raw predicate input and write the receipt",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := readRequest(args[0], args[1])
		if err != nil {
			return err
		}
		h, err := cfg.Harness(log)
		if err != nil {
			return err
		}
		rc, err := h.Prove(req)
		if err != nil {
			return err
		}
		bz, err := types.EncodeReceipt(rc)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[2], bz, 0o644); err != nil {
			return err
		}
		log.Info().Str("receipt", args[2]).Int("size", len(bz)).Msg("receipt written")
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <receipt>",
	Short: "Verify a receipt and print its journal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bz, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		rc, err := types.DecodeReceipt(bz)
		if err != nil {
			return err
		}

		// the receipt names the construction it was proven with
		hk, err := hasher.ParseKind(rc.Hash)
		if err != nil {
			return err
		}
		scheme, err := prover.ParseScheme(rc.Backend)
		if err != nil {
			return err
		}
		e, err := hasher.New(hk)
		if err != nil {
			return err
		}
		h, err := prover.New(scheme, e, prover.WithLogger(log), prover.WithKeyDir(cfg.KeyDir), prover.WithLoadOnly())
		if err != nil {
			return err
		}

		j, err := h.Verify(rc)
		if err != nil {
			return err
		}
		printJournal(cmd, j)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export-verifier <kind> <out.sol>",
	Short: "Export a Solidity verifier for a predicate circuit",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := types.ParseKind(args[0])
		if err != nil {
			return err
		}
		h, err := cfg.Harness(log)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(args[1]), 0o755); err != nil {
			return err
		}
		f, err := os.Create(args[1])
		if err != nil {
			return err
		}
		if err := h.ExportSolidity(k, f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Info().Str("out", args[1]).Stringer("kind", k).Msg("solidity verifier generated")
		return nil
	},
}

var vectorsCmd = &cobra.Command{
	Use:   "vectors <kind> <dir>",
	Short: "Write the built-in vectors of a predicate as raw input files",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := types.ParseKind(args[0])
		if err != nil {
			return err
		}
		e, err := cfg.Engine()
		if err != nil {
			return err
		}
		suite, err := vectors.NewSuite(e, []byte(cfg.Seed), cfg.CurrentTime)
		if err != nil {
			return err
		}
		vs, err := suite.Vectors(k)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(args[1], 0o755); err != nil {
			return err
		}
		for i, v := range vs {
			bz, err := types.EncodeInput(v.Input)
			if err != nil {
				return err
			}
			name := fmt.Sprintf("%s-%d-%s.bin", k, i, strings.ReplaceAll(v.Name, " ", "-"))
			if err := os.WriteFile(filepath.Join(args[1], name), bz, 0o644); err != nil {
				return err
			}
			log.Debug().Str("file", name).Bool("expected", v.Valid).Msg("vector written")
		}
		log.Info().Int("count", len(vs)).Str("dir", args[1]).Msgf("[%s] vectors written", k)
		return nil
	},
}

var commitCmd = &cobra.Command{
	Use:   "commit <amount> <partner>",
	Short: "Print the note commitment binding amount to a partner key",
	Long: `commit prints Compress(amount, partner), the commitment transfer and withdraw
notes use. The partner is a hex field element or a zp address.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}
		partner, err := types.ParseHash(args[1])
		if err != nil {
			return err
		}
		e, err := cfg.Engine()
		if err != nil {
			return err
		}
		c, err := commitment.CommitAmountFirst(e, amount, partner)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "commitment:", c.Hex())
		fmt.Fprintln(cmd.OutOrStdout(), "address:   ", types.EncodeAddress(c))
		return nil
	},
}

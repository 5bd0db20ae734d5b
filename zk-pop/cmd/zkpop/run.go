package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kysee/zkpop/zk-pop/types"
	"github.com/kysee/zkpop/zk-pop/vectors"
	"github.com/kysee/zkpop/zk-pop/verifier"
)

var noProve bool

var runCmd = &cobra.Command{
	Use:   "run <kind>",
	Short: "Run the built-in vectors of a predicate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := types.ParseKind(args[0])
		if err != nil {
			return err
		}
		h, err := cfg.Harness(log)
		if err != nil {
			return err
		}
		suite, err := vectors.NewSuite(h.Engine(), []byte(cfg.Seed), cfg.CurrentTime)
		if err != nil {
			return err
		}
		vs, err := suite.Vectors(k)
		if err != nil {
			return err
		}

		prove := cfg.Prove && !noProve
		acceptor := verifier.New(h, verifier.NewMemoryRegistry(), log)

		var mismatches int
		for i, v := range vs {
			req, err := types.NewRequest(v.Input)
			if err != nil {
				return err
			}

			var j *types.Journal
			if prove {
				rc, err := h.Prove(req)
				if err != nil {
					return fmt.Errorf("%s test %d: %w", k, i, err)
				}
				if j, err = acceptor.Accept(rc); err != nil {
					log.Info().Str("test", v.Name).Err(err).Msg("receipt not accepted")
				}
				if j == nil {
					return fmt.Errorf("%s test %d: %w", k, i, err)
				}
			} else if j, err = h.Evaluate(req); err != nil {
				return fmt.Errorf("%s test %d: %w", k, i, err)
			}

			ev := log.Info()
			if j.Valid != v.Valid {
				mismatches++
				ev = log.Error()
			}
			ev.Int("test", i).
				Str("name", v.Name).
				Bool("valid", j.Valid).
				Bool("expected", v.Valid).
				Stringer("journal", j).
				Msgf("[%s]", k)
		}

		if mismatches > 0 {
			return fmt.Errorf("%d of %d %s vectors did not match", mismatches, len(vs), k)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&noProve, "no-prove", false, "evaluate natively without proving")
}

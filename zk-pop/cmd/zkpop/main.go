package main

import (
	"os"
	"time"

	gnarklogger "github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kysee/zkpop/zk-pop/config"
)

var (
	cfgPath  string
	logLevel string
	hashKind string
	backend  string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "zkpop",
	Short: "Shielded payment predicate prover",
	Long: `zkpop evaluates shielded payment predicates (membership, audit, nullifier,
transfer, withdraw, condition, split and stream), proves their journals with
gnark and verifies the resulting receipts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("hash") {
			cfg.Hash = hashKind
		}
		if cmd.Flags().Changed("backend") {
			cfg.Backend = backend
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
			Level(cfg.Level()).
			With().Timestamp().Logger()
		gnarklogger.Set(log.Level(zerolog.WarnLevel))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "zkpop.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&hashKind, "hash", "poseidon2", "hash construction (poseidon2|mimc|poseidon)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "groth16", "proving scheme (groth16|plonk)")

	rootCmd.AddCommand(runCmd, evalCmd, proveCmd, verifyCmd, exportCmd, vectorsCmd, commitCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

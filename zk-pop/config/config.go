package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/kysee/zkpop/zk-pop/hasher"
	"github.com/kysee/zkpop/zk-pop/prover"
	"github.com/kysee/zkpop/zk-pop/vectors"
)

type Config struct {
	Hash     string `yaml:"hash"`
	Backend  string `yaml:"backend"`
	LogLevel string `yaml:"logLevel"`
	// CurrentTime is the clock audit vectors are built against.
	CurrentTime uint64 `yaml:"currentTime"`
	Seed        string `yaml:"seed"`
	Prove       bool   `yaml:"prove"`
	// KeyDir holds proving and verifying keys. Empty keeps keys in memory only.
	KeyDir string `yaml:"keyDir"`
}

func Default() *Config {
	return &Config{
		Hash:        string(hasher.Poseidon2),
		Backend:     string(prover.Groth16),
		LogLevel:    zerolog.LevelInfoValue,
		CurrentTime: vectors.DefaultCurrentTime,
		Seed:        "zkpop",
		Prove:       true,
		KeyDir:      "keys",
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) Validate() error {
	if _, err := hasher.ParseKind(c.Hash); err != nil {
		return err
	}
	if _, err := prover.ParseScheme(c.Backend); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Engine returns the configured hash engine.
func (c *Config) Engine() (hasher.Engine, error) {
	k, err := hasher.ParseKind(c.Hash)
	if err != nil {
		return nil, err
	}
	return hasher.New(k)
}

// Harness builds a proof harness from the configuration.
func (c *Config) Harness(logger zerolog.Logger) (*prover.Harness, error) {
	e, err := c.Engine()
	if err != nil {
		return nil, err
	}
	scheme, err := prover.ParseScheme(c.Backend)
	if err != nil {
		return nil, err
	}
	return prover.New(scheme, e, prover.WithLogger(logger), prover.WithKeyDir(c.KeyDir))
}

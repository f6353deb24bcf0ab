// Package config holds the settings every pipeline stage receives.
// Values come from defaults, an optional TOML file, then environment
// variables; command-line flags are applied on top by cmd.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/jsphweid/melodex/constants"
	"github.com/jsphweid/melodex/model"
)

type Config struct {
	DatasetPath  string   `toml:"dataset_path"`
	Extensions   []string `toml:"extensions"`
	OutputDir    string   `toml:"output_dir"`
	CorpusPath   string   `toml:"corpus_path"`
	MappingPath  string   `toml:"mapping_path"`
	ManifestPath string   `toml:"manifest_path"`
	LedgerPath   string   `toml:"ledger_path"`

	SequenceLength      int       `toml:"sequence_length"`
	AcceptableDurations []float64 `toml:"acceptable_durations"`
	TimeStep            float64   `toml:"time_step"`

	Delimiter string `toml:"delimiter"`
	Rest      string `toml:"rest"`
	Hold      string `toml:"hold"`

	Workers  int `toml:"workers"`
	MaxFiles int `toml:"max_files"`
}

func Default() Config {
	return Config{
		DatasetPath:         constants.DefaultDatasetPath,
		Extensions:          append([]string(nil), constants.DefaultExtensions...),
		OutputDir:           constants.DefaultOutputDir,
		CorpusPath:          constants.DefaultCorpusPath,
		MappingPath:         constants.DefaultMappingPath,
		ManifestPath:        constants.DefaultManifestPath,
		LedgerPath:          constants.DefaultLedgerPath,
		SequenceLength:      constants.DefaultSequenceLength,
		AcceptableDurations: append([]float64(nil), constants.DefaultAcceptableDurations...),
		TimeStep:            constants.DefaultTimeStep,
		Delimiter:           constants.DelimiterSymbol,
		Rest:                constants.RestSymbol,
		Hold:                constants.HoldSymbol,
		Workers:             1,
	}
}

// Load builds a config from defaults, the TOML file at path (skipped when
// path is empty) and environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %s: %v", model.ErrInvalidConfig, path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.DatasetPath = constants.GetEnv(constants.EnvDatasetPath, c.DatasetPath)
	c.OutputDir = constants.GetEnv(constants.EnvOutputDir, c.OutputDir)
	c.CorpusPath = constants.GetEnv(constants.EnvCorpusPath, c.CorpusPath)
	c.MappingPath = constants.GetEnv(constants.EnvMappingPath, c.MappingPath)
	c.ManifestPath = constants.GetEnv(constants.EnvManifestPath, c.ManifestPath)
	c.LedgerPath = constants.GetEnv(constants.EnvLedgerPath, c.LedgerPath)

	ints := []struct {
		name string
		dst  *int
	}{
		{constants.EnvSequenceLength, &c.SequenceLength},
		{constants.EnvWorkers, &c.Workers},
	}
	for _, v := range ints {
		raw := os.Getenv(v.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", model.ErrInvalidConfig, v.name, raw)
		}
		*v.dst = n
	}
	return nil
}

// Validate checks that the stages can run consistently with these values.
// In particular every acceptable duration must be a whole, non-zero number
// of time steps.
func (c Config) Validate() error {
	if c.SequenceLength <= 0 {
		return fmt.Errorf("%w: sequence_length must be positive, got %v", model.ErrInvalidConfig, c.SequenceLength)
	}
	if c.TimeStep <= 0 {
		return fmt.Errorf("%w: time_step must be positive, got %v", model.ErrInvalidConfig, c.TimeStep)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %v", model.ErrInvalidConfig, c.Workers)
	}
	if c.MaxFiles < 0 {
		return fmt.Errorf("%w: max_files must not be negative", model.ErrInvalidConfig)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("%w: no score extensions configured", model.ErrInvalidConfig)
	}

	seen := make(map[string]string)
	markers := []struct{ name, val string }{
		{"delimiter", c.Delimiter},
		{"rest", c.Rest},
		{"hold", c.Hold},
	}
	for _, m := range markers {
		if m.val == "" || len(strings.Fields(m.val)) != 1 || strings.TrimSpace(m.val) != m.val {
			return fmt.Errorf("%w: %v marker %q must be a single token", model.ErrInvalidConfig, m.name, m.val)
		}
		if _, err := strconv.Atoi(m.val); err == nil {
			return fmt.Errorf("%w: %v marker %q collides with pitch ids", model.ErrInvalidConfig, m.name, m.val)
		}
		if other, ok := seen[m.val]; ok {
			return fmt.Errorf("%w: %v and %v markers are both %q", model.ErrInvalidConfig, other, m.name, m.val)
		}
		seen[m.val] = m.name
	}

	if len(c.AcceptableDurations) == 0 {
		return fmt.Errorf("%w: acceptable_durations is empty", model.ErrInvalidConfig)
	}
	for _, d := range c.AcceptableDurations {
		steps := d / c.TimeStep
		if d <= 0 || math.Round(steps) < 1 || math.Abs(steps-math.Round(steps)) > 1e-9 {
			return fmt.Errorf("%w: duration %v is not a whole number of %v time steps", model.ErrInvalidConfig, d, c.TimeStep)
		}
	}
	return nil
}

// NormalizedExtensions returns the extensions lowercased with a leading dot.
func (c Config) NormalizedExtensions() []string {
	res := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		res = append(res, ext)
	}
	return res
}

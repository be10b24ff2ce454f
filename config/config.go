// Package config holds the tunable parameters of the propositional network engine.
package config

import (
	"bytes"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Propagation policies.
const (
	Auto         = "auto"         // Differential above DifferentialThreshold propositions, full below
	Full         = "full"         // Always recompute the whole network
	Differential = "differential" // Always recompute only what changed
)

// Analysis methods.
const (
	Ternary = "ternary"
	Exact   = "exact"
	None    = "none"
)

// Config is the engine configuration.
type Config struct {
	// Propagation is the evaluation policy used to answer queries.
	Propagation string `yaml:"propagation"`
	// DifferentialThreshold is the number of propositions above which the auto policy
	// uses differential propagation.
	DifferentialThreshold int `yaml:"differential_threshold"`
	// Analysis is the latch and inhibitor analysis method.
	Analysis string `yaml:"analysis"`
	// AnalysisLimit is the number of propositions above which the analysis is restricted.
	AnalysisLimit int `yaml:"analysis_limit"`
	// AnalysisBudget is the number of base propositions still analyzed above AnalysisLimit.
	AnalysisBudget int `yaml:"analysis_budget"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Propagation:           Auto,
		DifferentialThreshold: 10000,
		Analysis:              Ternary,
		AnalysisLimit:         10000,
		AnalysisBudget:        0,
	}
}

// Validate returns an error naming the first invalid field of c, if any.
func (c Config) Validate() error {
	switch c.Propagation {
	case Auto, Full, Differential:
	default:
		return errors.Errorf("propagation: invalid policy %q", c.Propagation)
	}
	if c.DifferentialThreshold < 0 {
		return errors.Errorf("differential_threshold: must not be negative, got %d", c.DifferentialThreshold)
	}
	switch c.Analysis {
	case Ternary, Exact, None:
	default:
		return errors.Errorf("analysis: invalid method %q", c.Analysis)
	}
	if c.AnalysisLimit < 0 {
		return errors.Errorf("analysis_limit: must not be negative, got %d", c.AnalysisLimit)
	}
	if c.AnalysisBudget < 0 {
		return errors.Errorf("analysis_budget: must not be negative, got %d", c.AnalysisBudget)
	}
	return nil
}

// UseDifferential is true iff queries on a network with the given number of
// propositions should use differential propagation.
func (c Config) UseDifferential(size int) bool {
	switch c.Propagation {
	case Full:
		return false
	case Differential:
		return true
	default:
		return size > c.DifferentialThreshold
	}
}

// Load reads a YAML configuration from r. Missing fields keep their default value,
// unknown fields are an error.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrap(err, "could not parse config")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// LoadFile reads the configuration in the file at path, then applies the environment
// overrides. An empty path yields the default configuration with overrides applied.
func LoadFile(path string) (Config, error) {
	var data []byte
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return Default(), errors.Wrapf(err, "could not read config %q", path)
		}
	}
	cfg, err := Load(bytes.NewReader(data))
	if err != nil {
		return cfg, errors.Wrapf(err, "config %q", path)
	}
	if err := cfg.FromEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FromEnv overrides fields of c with the PROPNET_* variables found by lookup, such as
// PROPNET_PROPAGATION or PROPNET_ANALYSIS_BUDGET, then validates the result.
func (c *Config) FromEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"PROPNET_PROPAGATION": &c.Propagation,
		"PROPNET_ANALYSIS":    &c.Analysis,
	}
	for name, field := range strs {
		if v, ok := lookup(name); ok {
			*field = v
		}
	}
	ints := map[string]*int{
		"PROPNET_DIFFERENTIAL_THRESHOLD": &c.DifferentialThreshold,
		"PROPNET_ANALYSIS_LIMIT":         &c.AnalysisLimit,
		"PROPNET_ANALYSIS_BUDGET":        &c.AnalysisBudget,
	}
	for name, field := range ints {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "%s", name)
		}
		*field = i
	}
	return c.Validate()
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, Auto, cfg.Propagation)
	assert.Equal(t, Ternary, cfg.Analysis)
	assert.False(t, cfg.UseDifferential(10000))
	assert.True(t, cfg.UseDifferential(10001))
}

func TestLoad(t *testing.T) {
	cfg, err := Load(strings.NewReader("propagation: differential\nanalysis_budget: 50\n"))
	require.NoError(t, err)
	assert.Equal(t, Differential, cfg.Propagation)
	assert.Equal(t, 50, cfg.AnalysisBudget)
	assert.Equal(t, 10000, cfg.AnalysisLimit, "missing fields keep their default value")
	assert.True(t, cfg.UseDifferential(1))
}

func TestLoadEmpty(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, yaml, want string
	}{
		{"unknown field", "propagaton: full\n", "propagaton"},
		{"bad policy", "propagation: lazy\n", "propagation"},
		{"bad method", "analysis: magic\n", "analysis"},
		{"negative limit", "analysis_limit: -1\n", "analysis_limit"},
		{"negative budget", "analysis_budget: -5\n", "analysis_budget"},
		{"negative threshold", "differential_threshold: -5\n", "differential_threshold"},
		{"not yaml", "propagation: [\n", "could not parse"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(test.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "propnet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis: exact\n"), 0o600))
	t.Setenv("PROPNET_PROPAGATION", "full")
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Exact, cfg.Analysis)
	assert.Equal(t, Full, cfg.Propagation)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		"PROPNET_ANALYSIS_LIMIT":  "20",
		"PROPNET_ANALYSIS_BUDGET": "4",
	}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
	cfg := Default()
	require.NoError(t, cfg.FromEnv(lookup))
	assert.Equal(t, 20, cfg.AnalysisLimit)
	assert.Equal(t, 4, cfg.AnalysisBudget)

	env["PROPNET_DIFFERENTIAL_THRESHOLD"] = "many"
	assert.Error(t, cfg.FromEnv(lookup))
	delete(env, "PROPNET_DIFFERENTIAL_THRESHOLD")

	env["PROPNET_ANALYSIS"] = "guess"
	assert.Error(t, cfg.FromEnv(lookup))
}

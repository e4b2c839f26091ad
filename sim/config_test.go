package sim

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTempYAML writes content to a temp file and returns its path.
func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultSimConfig(t *testing.T) {
	cfg := DefaultSimConfig("rr")
	assert.Equal(t, "rr", cfg.Policy)
	assert.Equal(t, DefaultPartitionCapacities, cfg.Partitions)
	assert.Equal(t, DefaultQuantum, cfg.Quantum)
	assert.Equal(t, DefaultContextSwitchOverhead, cfg.ContextSwitchOverhead)
	assert.Equal(t, int64(math.MaxInt64), cfg.Horizon)
	assert.NoError(t, cfg.Validate())

	// the default layout is copied, not aliased
	cfg.Partitions[0] = 1
	assert.Equal(t, int64(40), DefaultPartitionCapacities[0])
}

func TestLoadSimConfig_OverridesDefaults(t *testing.T) {
	path := writeTempYAML(t, `
policy: ep-rr
partitions: [64, 32, 16]
quantum: 20
`)
	cfg, err := LoadSimConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "ep-rr", cfg.Policy)
	assert.Equal(t, []int64{64, 32, 16}, cfg.Partitions)
	assert.Equal(t, int64(20), cfg.Quantum)
	// absent keys keep their defaults
	assert.Equal(t, DefaultContextSwitchOverhead, cfg.ContextSwitchOverhead)
	assert.Equal(t, int64(math.MaxInt64), cfg.Horizon)
}

func TestLoadSimConfig_ZeroOverhead(t *testing.T) {
	cfg, err := LoadSimConfig(writeTempYAML(t, "context_switch_overhead: 0\nhorizon: 500\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), cfg.ContextSwitchOverhead)
	assert.Equal(t, int64(500), cfg.Horizon)
	assert.Equal(t, "ep", cfg.Policy)
}

func TestLoadSimConfig_UnknownKey(t *testing.T) {
	_, err := LoadSimConfig(writeTempYAML(t, "policy: rr\nquantumm: 3\n"))
	assert.ErrorContains(t, err, "parsing sim config")
}

func TestLoadSimConfig_MissingFile(t *testing.T) {
	_, err := LoadSimConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "reading sim config")
}

func TestSimConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SimConfig)
		wantErr string
	}{
		{"unknown policy", func(c *SimConfig) { c.Policy = "sjf" }, "unknown policy"},
		{"no partitions", func(c *SimConfig) { c.Partitions = nil }, "partitions must not be empty"},
		{"zero capacity", func(c *SimConfig) { c.Partitions = []int64{10, 0} }, "partition 2 capacity"},
		{"zero quantum rr", func(c *SimConfig) { c.Quantum = 0 }, "quantum must be positive"},
		{"negative overhead", func(c *SimConfig) { c.ContextSwitchOverhead = -1 }, "context_switch_overhead"},
		{"negative horizon", func(c *SimConfig) { c.Horizon = -1 }, "horizon"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultSimConfig("rr")
			tc.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.wantErr)
		})
	}

	t.Run("ep ignores quantum", func(t *testing.T) {
		cfg := DefaultSimConfig("ep")
		cfg.Quantum = 0
		assert.NoError(t, cfg.Validate())
	})
}

package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultContextSwitchOverhead is the simulated cost in ticks of every scheduling transition.
const DefaultContextSwitchOverhead int64 = 5

// SimConfig groups the static parameters of one simulation run.
type SimConfig struct {
	Policy                string  `yaml:"policy"`                  // "ep", "ep-rr" or "rr"
	Partitions            []int64 `yaml:"partitions"`              // partition capacities in KB, largest first
	Quantum               int64   `yaml:"quantum"`                 // round-robin slice in ticks (rr, ep-rr)
	ContextSwitchOverhead int64   `yaml:"context_switch_overhead"` // ticks charged per transition (0 disables)
	Horizon               int64   `yaml:"horizon"`                 // stop after this tick
}

// DefaultSimConfig returns the stock six-partition configuration for the given policy.
func DefaultSimConfig(policy string) SimConfig {
	return SimConfig{
		Policy:                policy,
		Partitions:            append([]int64(nil), DefaultPartitionCapacities...),
		Quantum:               DefaultQuantum,
		ContextSwitchOverhead: DefaultContextSwitchOverhead,
		Horizon:               math.MaxInt64,
	}
}

// LoadSimConfig reads a YAML configuration file on top of DefaultSimConfig("ep").
// Keys absent from the file keep their default; unknown keys are an error.
func LoadSimConfig(path string) (SimConfig, error) {
	cfg := DefaultSimConfig("ep")
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading sim config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing sim config: %w", err)
	}
	return cfg, nil
}

// Validate checks the policy name and parameter ranges.
func (c SimConfig) Validate() error {
	if !IsValidPolicy(c.Policy) {
		return fmt.Errorf("unknown policy %q", c.Policy)
	}
	if len(c.Partitions) == 0 {
		return fmt.Errorf("partitions must not be empty")
	}
	for i, capacity := range c.Partitions {
		if capacity <= 0 {
			return fmt.Errorf("partition %d capacity must be positive, got %d", i+1, capacity)
		}
	}
	if c.Policy != "ep" && c.Quantum <= 0 {
		return fmt.Errorf("quantum must be positive for policy %q, got %d", c.Policy, c.Quantum)
	}
	if c.ContextSwitchOverhead < 0 {
		return fmt.Errorf("context_switch_overhead must be non-negative, got %d", c.ContextSwitchOverhead)
	}
	if c.Horizon < 0 {
		return fmt.Errorf("horizon must be non-negative, got %d", c.Horizon)
	}
	return nil
}

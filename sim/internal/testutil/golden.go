// Package testutil provides shared test infrastructure for the procsim packages.
// It holds the golden scenario dataset types and assertion helpers used by
// the sim/ and cmd/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one hand-verified scheduling scenario.
type GoldenTestCase struct {
	Name                  string `json:"name"`
	Policy                string `json:"policy"`
	Quantum               int64  `json:"quantum"`
	ContextSwitchOverhead int64  `json:"context_switch_overhead"`
	// Processes rows follow the input file column order:
	// id, size, arrival_time, processing_time, io_frequency, io_duration, priority
	Processes [][]int64     `json:"processes"`
	Metrics   GoldenMetrics `json:"metrics"`
}

// GoldenMetrics represents the expected metrics from a golden test case.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	Completed       int   `json:"completed"`
	Makespan        int64 `json:"makespan"`
	ContextSwitches int   `json:"context_switches"`

	// Derived averages
	Throughput    float64 `json:"throughput"`
	AvgWait       float64 `json:"avg_wait"`
	AvgTurnaround float64 `json:"avg_turnaround"`
	AvgResponse   float64 `json:"avg_response"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	for _, tc := range dataset.Tests {
		for i, row := range tc.Processes {
			if len(row) != 7 {
				t.Fatalf("golden case %q: process row %d has %d columns, want 7", tc.Name, i, len(row))
			}
		}
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

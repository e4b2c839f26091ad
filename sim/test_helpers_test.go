package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inference-sim/procsim/sim/trace"
)

// testConfig returns the default six-partition layout with the given policy and overhead.
func testConfig(policy string, overhead int64) SimConfig {
	cfg := DefaultSimConfig(policy)
	cfg.ContextSwitchOverhead = overhead
	return cfg
}

// runSpecs builds and runs a simulator, failing the test on construction errors.
func runSpecs(t *testing.T, cfg SimConfig, specs ...ProcessSpec) (*Simulator, *Result) {
	t.Helper()
	s, err := NewSimulator(cfg, specs)
	require.NoError(t, err)
	return s, s.Run()
}

// spec builds a ProcessSpec in input file column order.
func spec(id int, size, arrival, processing, ioFreq, ioDur int64, priority int) ProcessSpec {
	return ProcessSpec{
		ID:             id,
		Size:           size,
		ArrivalTime:    arrival,
		ProcessingTime: processing,
		IOFrequency:    ioFreq,
		IODuration:     ioDur,
		Priority:       priority,
	}
}

// tr is shorthand for an expected transition record.
func tr(clock int64, pid int, from, to string) trace.TransitionRecord {
	return trace.TransitionRecord{Clock: clock, PID: pid, From: from, To: to}
}

const (
	sNew  = trace.StateNew
	sRdy  = trace.StateReady
	sRun  = trace.StateRunning
	sWait = trace.StateWaiting
	sTerm = trace.StateTerminated
)

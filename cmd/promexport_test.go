package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/inference-sim/procsim/sim"
)

func TestExportPrometheusTextfile(t *testing.T) {
	// GIVEN results from two policies
	results := []*sim.Result{
		{RunID: "a1", Policy: "ep", Metrics: sim.Metrics{Processes: 2, AvgWait: 12.5, Makespan: 95, ContextSwitches: 6}},
		{RunID: "b2", Policy: "rr", Metrics: sim.Metrics{Processes: 2, AvgWait: 30}, Rejected: []sim.ProcessSpec{{ID: 9}}},
	}

	// WHEN exported
	path := filepath.Join(t.TempDir(), "procsim.prom")
	require.NoError(t, ExportPrometheusTextfile(path, results...))

	// THEN each run is one labelled series per gauge
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "# TYPE procsim_average_wait_ticks gauge")
	assert.Contains(t, out, `procsim_average_wait_ticks{policy="ep",run_id="a1"} 12.5`)
	assert.Contains(t, out, `procsim_average_wait_ticks{policy="rr",run_id="b2"} 30`)
	assert.Contains(t, out, `procsim_makespan_ticks{policy="ep",run_id="a1"} 95`)
	assert.Contains(t, out, `procsim_context_switches{policy="ep",run_id="a1"} 6`)
	assert.Contains(t, out, `procsim_rejected_processes{policy="rr",run_id="b2"} 1`)
}

func TestExportPrometheusTextfile_BadPath(t *testing.T) {
	err := ExportPrometheusTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"), &sim.Result{Policy: "ep"})
	assert.ErrorContains(t, err, "writing prometheus textfile")
}

func TestExportPrometheusTextfile_TraceGauges(t *testing.T) {
	// GIVEN a real ep-rr run with one priority preemption
	res, err := simulate(sim.DefaultSimConfig("ep-rr"), []sim.ProcessSpec{
		{ID: 1, Size: 10, ProcessingTime: 50, Priority: 1},
		{ID: 2, Size: 10, ArrivalTime: 10, ProcessingTime: 20, Priority: 5},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "procsim.prom")
	require.NoError(t, ExportPrometheusTextfile(path, res))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	labels := `{policy="ep-rr",run_id="` + res.RunID + `"}`
	assert.Contains(t, out, "procsim_admissions"+labels+" 2")
	assert.Contains(t, out, "procsim_preemptions"+labels+" 1")
	assert.Contains(t, out, "procsim_io_requests"+labels+" 0")
	assert.Contains(t, out, "procsim_peak_used_kb"+labels+" 20")
}

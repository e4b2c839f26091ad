// Tracks run-wide and per-process scheduling metrics such as:
// throughput, waiting, turnaround and response time.

package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// ProcessMetrics holds the derived timings of one registered process.
type ProcessMetrics struct {
	ID         int   `json:"id"`
	Arrival    int64 `json:"arrival"`
	Start      int64 `json:"start"` // -1 if never dispatched
	Completion int64 `json:"completion"`
	Turnaround int64 `json:"turnaround"`
	Wait       int64 `json:"wait"`
	Response   int64 `json:"response"`
}

// Metrics aggregates statistics about the simulation for final reporting.
type Metrics struct {
	Processes       int     // Number of registered (admitted) processes
	Completed       int     // Number of TERMINATED processes
	Makespan        int64   // Latest completion time
	Throughput      float64 // Processes per tick: Processes / Makespan
	AvgWait         float64
	AvgTurnaround   float64
	AvgResponse     float64
	P95Turnaround   float64
	P95Wait         float64
	ContextSwitches int // Set by the simulator; not derivable from the registry

	PerProcess []ProcessMetrics // Admission order
}

// ComputeMetrics derives Metrics from the final registry. It reads but never
// modifies the registry, so repeated calls return identical values.
func ComputeMetrics(reg *Registry) Metrics {
	var m Metrics
	procs := reg.All()
	m.Processes = len(procs)
	if m.Processes == 0 {
		return m
	}

	waits := make([]int64, 0, len(procs))
	turnarounds := make([]int64, 0, len(procs))
	responses := make([]int64, 0, len(procs))
	for _, p := range procs {
		pm := ProcessMetrics{
			ID:         p.ID,
			Arrival:    p.ArrivalTime,
			Start:      p.StartTime,
			Completion: p.CompletionTime,
			Turnaround: p.Turnaround(),
			Wait:       p.TotalWaitTime,
			Response:   p.ResponseTime(),
		}
		m.PerProcess = append(m.PerProcess, pm)
		if p.State == StateTerminated {
			m.Completed++
		}
		m.Makespan = max(m.Makespan, p.CompletionTime)
		waits = append(waits, pm.Wait)
		turnarounds = append(turnarounds, pm.Turnaround)
		responses = append(responses, pm.Response)
	}

	m.AvgWait = CalculateMean(waits)
	m.AvgTurnaround = CalculateMean(turnarounds)
	m.AvgResponse = CalculateMean(responses)
	slices.Sort(waits)
	slices.Sort(turnarounds)
	m.P95Wait = CalculatePercentile(waits, 95)
	m.P95Turnaround = CalculatePercentile(turnarounds, 95)
	if m.Makespan > 0 {
		m.Throughput = float64(m.Processes) / float64(m.Makespan)
	}
	return m
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print(w io.Writer, policy string) {
	fmt.Fprintf(w, "=== %s Metrics ===\n", policy)
	fmt.Fprintf(w, "Processes            : %d (%d completed)\n", m.Processes, m.Completed)
	fmt.Fprintf(w, "Throughput           : %.6f processes/tick\n", m.Throughput)
	fmt.Fprintf(w, "Average Waiting Time : %.2f ticks\n", m.AvgWait)
	fmt.Fprintf(w, "Average Turnaround   : %.2f ticks\n", m.AvgTurnaround)
	fmt.Fprintf(w, "Average Response Time: %.2f ticks\n", m.AvgResponse)
	fmt.Fprintf(w, "Context Switches     : %d\n", m.ContextSwitches)
}

// MetricsOutput is the JSON document written by SaveResults.
type MetricsOutput struct {
	RunID           string           `json:"run_id"`
	Policy          string           `json:"policy"`
	Processes       int              `json:"processes"`
	Completed       int              `json:"completed"`
	Makespan        int64            `json:"makespan"`
	Throughput      float64          `json:"throughput"`
	AvgWait         float64          `json:"avg_wait"`
	AvgTurnaround   float64          `json:"avg_turnaround"`
	AvgResponse     float64          `json:"avg_response"`
	P95Wait         float64          `json:"p95_wait"`
	P95Turnaround   float64          `json:"p95_turnaround"`
	ContextSwitches int              `json:"context_switches"`
	PerProcess      []ProcessMetrics `json:"per_process"`
}

// SaveResults writes the metrics as indented JSON to path.
func (m *Metrics) SaveResults(runID, policy, path string) error {
	output := MetricsOutput{
		RunID:           runID,
		Policy:          policy,
		Processes:       m.Processes,
		Completed:       m.Completed,
		Makespan:        m.Makespan,
		Throughput:      m.Throughput,
		AvgWait:         m.AvgWait,
		AvgTurnaround:   m.AvgTurnaround,
		AvgResponse:     m.AvgResponse,
		P95Wait:         m.P95Wait,
		P95Turnaround:   m.P95Turnaround,
		ContextSwitches: m.ContextSwitches,
		PerProcess:      m.PerProcess,
	}
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metrics: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

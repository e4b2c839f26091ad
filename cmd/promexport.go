package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	sim "github.com/inference-sim/procsim/sim"
	"github.com/inference-sim/procsim/sim/trace"
)

// ExportPrometheusTextfile writes the run metrics in Prometheus text format,
// one series per result labelled by policy and run_id, so the file can be
// picked up by a node_exporter textfile collector.
func ExportPrometheusTextfile(path string, results ...*sim.Result) error {
	labels := []string{"policy", "run_id"}
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "procsim",
			Name:      name,
			Help:      help,
		}, labels)
	}
	var (
		processes       = gauge("processes", "Number of admitted processes.")
		rejected        = gauge("rejected_processes", "Number of processes larger than every partition.")
		throughput      = gauge("throughput_processes_per_tick", "Admitted processes divided by makespan.")
		avgWait         = gauge("average_wait_ticks", "Mean ticks spent READY before dispatch.")
		avgTurnaround   = gauge("average_turnaround_ticks", "Mean completion minus arrival.")
		avgResponse     = gauge("average_response_ticks", "Mean first dispatch minus arrival.")
		makespan        = gauge("makespan_ticks", "Latest completion time.")
		contextSwitches = gauge("context_switches", "Transitions charged with switch overhead.")
		admissions      = gauge("admissions", "NEW to READY transitions.")
		preemptions     = gauge("preemptions", "RUNNING to READY transitions by priority or quantum.")
		ioRequests      = gauge("io_requests", "RUNNING to WAITING transitions.")
		peakUsedKB      = gauge("peak_used_kb", "Largest summed size of resident processes.")
	)

	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		processes, rejected, throughput, avgWait, avgTurnaround, avgResponse, makespan, contextSwitches,
		admissions, preemptions, ioRequests, peakUsedKB,
	} {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("registering metric: %w", err)
		}
	}

	for _, r := range results {
		l := prometheus.Labels{"policy": r.Policy, "run_id": r.RunID}
		m := r.Metrics
		processes.With(l).Set(float64(m.Processes))
		rejected.With(l).Set(float64(len(r.Rejected)))
		throughput.With(l).Set(m.Throughput)
		avgWait.With(l).Set(m.AvgWait)
		avgTurnaround.With(l).Set(m.AvgTurnaround)
		avgResponse.With(l).Set(m.AvgResponse)
		makespan.With(l).Set(float64(m.Makespan))
		contextSwitches.With(l).Set(float64(m.ContextSwitches))

		summary := trace.Summarize(r.Trace)
		admissions.With(l).Set(float64(summary.Admissions))
		preemptions.With(l).Set(float64(summary.Preemptions))
		ioRequests.With(l).Set(float64(summary.IORequests))
		peakUsedKB.With(l).Set(float64(summary.PeakUsedKB))
	}

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing prometheus textfile: %w", err)
	}
	return nil
}

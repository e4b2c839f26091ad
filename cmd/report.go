package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	sim "github.com/inference-sim/procsim/sim"
	"github.com/inference-sim/procsim/sim/trace"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

// RenderExecution writes the transition log as a table.
func RenderExecution(w io.Writer, records []trace.TransitionRecord) {
	table := newTable(w, []string{"Time of Transition", "PID", "Old State", "New State"})
	for _, r := range records {
		table.Append([]string{
			strconv.FormatInt(r.Clock, 10),
			strconv.Itoa(r.PID),
			r.From,
			r.To,
		})
	}
	table.Render()
}

// RenderMemory writes one row per admission or release with the resulting occupancy.
func RenderMemory(w io.Writer, records []trace.MemoryRecord) {
	table := newTable(w, []string{"Time", "PID", "Event", "Partition", "Used KB", "Free KB", "Total KB", "Occupancy"})
	for _, r := range records {
		table.Append([]string{
			strconv.FormatInt(r.Clock, 10),
			strconv.Itoa(r.PID),
			string(r.Event),
			strconv.Itoa(r.Partition),
			strconv.FormatInt(r.UsedKB, 10),
			strconv.FormatInt(r.FreeKB, 10),
			strconv.FormatInt(r.TotalKB, 10),
			trace.FormatOccupancy(r.Occupancy),
		})
	}
	table.Render()
}

// RenderProcesses writes the final state of every registered process.
func RenderProcesses(w io.Writer, procs []*sim.Process) {
	table := newTable(w, []string{"PID", "Partition", "Size", "Arrival Time", "Start Time", "Remaining", "State"})
	for _, p := range procs {
		table.Append([]string{
			strconv.Itoa(p.ID),
			strconv.Itoa(p.Partition),
			strconv.FormatInt(p.Size, 10),
			strconv.FormatInt(p.ArrivalTime, 10),
			strconv.FormatInt(p.StartTime, 10),
			strconv.FormatInt(p.RemainingTime, 10),
			p.State.String(),
		})
	}
	table.Render()
}

// RenderComparison writes one metrics row per policy run.
func RenderComparison(w io.Writer, results []*sim.Result) {
	table := newTable(w, []string{"Policy", "Processes", "Throughput", "Avg Wait", "Avg Turnaround", "Avg Response", "Context Switches", "Makespan"})
	for _, r := range results {
		m := r.Metrics
		table.Append([]string{
			r.Policy,
			strconv.Itoa(m.Processes),
			fmt.Sprintf("%.6f", m.Throughput),
			fmt.Sprintf("%.2f", m.AvgWait),
			fmt.Sprintf("%.2f", m.AvgTurnaround),
			fmt.Sprintf("%.2f", m.AvgResponse),
			strconv.Itoa(m.ContextSwitches),
			strconv.FormatInt(m.Makespan, 10),
		})
	}
	table.Render()
}

// RenderSummary writes the transition counts and peak memory of a run.
func RenderSummary(w io.Writer, s *trace.TraceSummary) {
	table := newTable(w, []string{"Trace Summary", "Count"})
	table.AppendBulk([][]string{
		{"Transitions", strconv.Itoa(s.TotalTransitions)},
		{"Admissions", strconv.Itoa(s.Admissions)},
		{"Dispatches", strconv.Itoa(s.Dispatches)},
		{"Preemptions", strconv.Itoa(s.Preemptions)},
		{"I/O Requests", strconv.Itoa(s.IORequests)},
		{"I/O Completions", strconv.Itoa(s.IOCompletions)},
		{"Terminations", strconv.Itoa(s.Terminations)},
		{"Context Switches", strconv.Itoa(s.ContextSwitches)},
		{"Peak Used KB", strconv.FormatInt(s.PeakUsedKB, 10)},
		{"Memory Snapshots", strconv.Itoa(s.MemorySnapshots)},
	})
	table.Render()
}

// RenderPartitions writes the partition layout with current occupants.
func RenderPartitions(w io.Writer, partitions []sim.Partition) {
	table := newTable(w, []string{"Partition", "Capacity KB", "Occupant"})
	for _, p := range partitions {
		occupant := "-"
		if !p.IsFree() {
			occupant = strconv.Itoa(p.Occupant)
		}
		table.Append([]string{
			strconv.Itoa(p.Number),
			strconv.FormatInt(p.Capacity, 10),
			occupant,
		})
	}
	table.Render()
}

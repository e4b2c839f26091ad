package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTransitions int
	Admissions       int // NEW → READY
	Dispatches       int // READY → RUNNING
	Preemptions      int // RUNNING → READY, by priority or quantum
	IORequests       int // RUNNING → WAITING
	IOCompletions    int // WAITING → READY
	Terminations     int // RUNNING → TERMINATED
	ContextSwitches  int // transitions that charge the switch overhead
	PeakUsedKB       int64
	MemorySnapshots  int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil {
		return summary
	}

	summary.TotalTransitions = len(st.Transitions)
	for _, t := range st.Transitions {
		switch {
		case t.From == StateNew && t.To == StateReady:
			summary.Admissions++
		case t.From == StateReady && t.To == StateRunning:
			summary.Dispatches++
		case t.From == StateRunning && t.To == StateReady:
			summary.Preemptions++
		case t.From == StateRunning && t.To == StateWaiting:
			summary.IORequests++
		case t.From == StateWaiting && t.To == StateReady:
			summary.IOCompletions++
		case t.From == StateRunning && t.To == StateTerminated:
			summary.Terminations++
		}
	}
	summary.ContextSwitches = summary.Dispatches + summary.Preemptions + summary.IORequests + summary.Terminations

	summary.MemorySnapshots = len(st.Memory)
	for _, m := range st.Memory {
		if m.UsedKB > summary.PeakUsedKB {
			summary.PeakUsedKB = m.UsedKB
		}
	}

	return summary
}

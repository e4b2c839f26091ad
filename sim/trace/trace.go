package trace

// SimulationTrace collects the transition and memory logs of a simulation.
// Records are appended in simulation order, so Clock is non-decreasing.
type SimulationTrace struct {
	RunID       string
	Transitions []TransitionRecord
	Memory      []MemoryRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(runID string) *SimulationTrace {
	return &SimulationTrace{
		RunID:       runID,
		Transitions: make([]TransitionRecord, 0),
		Memory:      make([]MemoryRecord, 0),
	}
}

// RecordTransition appends a transition record.
func (st *SimulationTrace) RecordTransition(record TransitionRecord) {
	st.Transitions = append(st.Transitions, record)
}

// RecordMemory appends a memory record.
func (st *SimulationTrace) RecordMemory(record MemoryRecord) {
	st.Memory = append(st.Memory, record)
}

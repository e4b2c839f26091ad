package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulationTrace_Record(t *testing.T) {
	st := NewSimulationTrace("run-a")
	assert.Equal(t, "run-a", st.RunID)
	assert.Empty(t, st.Transitions)
	assert.Empty(t, st.Memory)

	st.RecordTransition(TransitionRecord{Clock: 0, PID: 1, From: StateNew, To: StateReady})
	st.RecordTransition(TransitionRecord{Clock: 0, PID: 2, From: StateNew, To: StateReady})
	st.RecordTransition(TransitionRecord{Clock: 5, PID: 1, From: StateReady, To: StateRunning})
	st.RecordMemory(MemoryRecord{Clock: 0, PID: 1, Event: MemoryAdmit, Partition: 3})

	assert.Len(t, st.Transitions, 3)
	assert.Equal(t, TransitionRecord{Clock: 5, PID: 1, From: StateReady, To: StateRunning}, st.Transitions[2])
	assert.Len(t, st.Memory, 1)
}

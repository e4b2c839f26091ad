package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessState_String(t *testing.T) {
	assert.Equal(t, "NEW", StateNew.String())
	assert.Equal(t, "READY", StateReady.String())
	assert.Equal(t, "RUNNING", StateRunning.String())
	assert.Equal(t, "WAITING", StateWaiting.String())
	assert.Equal(t, "TERMINATED", StateTerminated.String())
	assert.Equal(t, "UNKNOWN(9)", ProcessState(9).String())
}

func TestNewProcess_StartsNewWithoutMemory(t *testing.T) {
	p := NewProcess(spec(3, 12, 7, 40, 10, 2, 1))

	assert.Equal(t, StateNew, p.State)
	assert.Equal(t, int64(40), p.RemainingTime)
	assert.Equal(t, NoPartition, p.Partition)
	assert.False(t, p.Started())
	assert.Equal(t, int64(0), p.CPUUsed())
	assert.Equal(t, int64(0), p.Turnaround())
	assert.Equal(t, int64(0), p.ResponseTime())
}

func TestProcess_DerivedTimings(t *testing.T) {
	p := NewProcess(spec(1, 5, 10, 30, 0, 0, 0))
	p.StartTime = 25
	p.RemainingTime = 12
	assert.Equal(t, int64(18), p.CPUUsed())
	assert.Equal(t, int64(15), p.ResponseTime())
	// not terminated yet
	assert.Equal(t, int64(0), p.Turnaround())

	p.RemainingTime = 0
	p.State = StateTerminated
	p.CompletionTime = 70
	assert.Equal(t, int64(60), p.Turnaround())
}

func TestProcessSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    ProcessSpec
		wantErr string
	}{
		{"valid", spec(1, 0, 0, 1, 0, 0, 0), ""},
		{"zero id", spec(0, 5, 0, 10, 0, 0, 0), ""},
		{"negative id", spec(-1, 5, 0, 10, 0, 0, 0), "process id must be non-negative"},
		{"negative size", spec(1, -1, 0, 10, 0, 0, 0), "size"},
		{"negative arrival", spec(1, 5, -3, 10, 0, 0, 0), "arrival time"},
		{"zero processing", spec(1, 5, 0, 0, 0, 0, 0), "processing time"},
		{"negative io frequency", spec(1, 5, 0, 10, -1, 0, 0), "io frequency"},
		{"negative io duration", spec(1, 5, 0, 10, 2, -1, 0), "io duration"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestProcess_String(t *testing.T) {
	p := NewProcess(spec(4, 5, 0, 10, 0, 0, 0))
	assert.Equal(t, "Process: (ID: 4, State: NEW, Remaining: 10, Partition: -1)", p.String())
	assert.Equal(t, p.String(), fmt.Sprint(p))
}

// Defines the Process record (the simulator's PCB) and its lifecycle states.

package sim

import (
	"fmt"
)

// ProcessState represents the lifecycle state of a process.
type ProcessState int

const (
	StateNew ProcessState = iota
	StateReady
	StateRunning
	StateWaiting
	StateTerminated
)

// String returns the log label of the state.
func (s ProcessState) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateReady:
		return "READY"
	case StateRunning:
		return "RUNNING"
	case StateWaiting:
		return "WAITING"
	case StateTerminated:
		return "TERMINATED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

const (
	NoPartition = -1 // Partition value of a process that holds no memory
	Unset       = -1 // StartTime value of a process that was never dispatched
)

// ProcessSpec is the static execution profile of a process as read from input.
type ProcessSpec struct {
	ID             int   // Unique process identifier
	Size           int64 // Memory footprint in KB
	ArrivalTime    int64 // Tick at which the process arrives
	ProcessingTime int64 // Total CPU ticks required
	IOFrequency    int64 // CPU ticks between I/O requests (0 = no I/O)
	IODuration     int64 // Ticks spent waiting per I/O request
	Priority       int   // External priority; interpretation depends on the policy
}

// Validate reports the first field of the profile that cannot be simulated.
func (ps ProcessSpec) Validate() error {
	switch {
	case ps.ID < 0:
		return fmt.Errorf("process id must be non-negative, got %d", ps.ID)
	case ps.Size < 0:
		return fmt.Errorf("process %d: size must be non-negative, got %d", ps.ID, ps.Size)
	case ps.ArrivalTime < 0:
		return fmt.Errorf("process %d: arrival time must be non-negative, got %d", ps.ID, ps.ArrivalTime)
	case ps.ProcessingTime <= 0:
		return fmt.Errorf("process %d: processing time must be positive, got %d", ps.ID, ps.ProcessingTime)
	case ps.IOFrequency < 0:
		return fmt.Errorf("process %d: io frequency must be non-negative, got %d", ps.ID, ps.IOFrequency)
	case ps.IODuration < 0:
		return fmt.Errorf("process %d: io duration must be non-negative, got %d", ps.ID, ps.IODuration)
	}
	return nil
}

// Process models a single process's lifecycle in the simulation.
// The embedded ProcessSpec never changes after NewProcess.
type Process struct {
	ProcessSpec

	State           ProcessState
	RemainingTime   int64 // CPU ticks left; 0 iff Terminated
	RemainingIOTime int64 // Ticks left in the current I/O wait
	Partition       int   // Partition number held, or NoPartition

	StartTime      int64 // First dispatch tick, or Unset
	CompletionTime int64 // Tick after the last CPU tick; 0 until Terminated
	TotalWaitTime  int64 // Cumulative ticks spent in READY before dispatch
	LastReadyTime  int64 // Tick at which the process last entered READY
}

// NewProcess creates a process in the NEW state from its profile.
func NewProcess(spec ProcessSpec) *Process {
	return &Process{
		ProcessSpec:   spec,
		State:         StateNew,
		RemainingTime: spec.ProcessingTime,
		Partition:     NoPartition,
		StartTime:     Unset,
	}
}

// Started reports whether the process has been dispatched at least once.
func (p *Process) Started() bool {
	return p.StartTime != Unset
}

// CPUUsed returns the CPU ticks consumed so far.
func (p *Process) CPUUsed() int64 {
	return p.ProcessingTime - p.RemainingTime
}

// Turnaround returns completion minus arrival, or 0 for an unfinished process.
func (p *Process) Turnaround() int64 {
	if p.State != StateTerminated {
		return 0
	}
	return p.CompletionTime - p.ArrivalTime
}

// ResponseTime returns first dispatch minus arrival, or 0 if never dispatched.
func (p *Process) ResponseTime() int64 {
	if !p.Started() {
		return 0
	}
	return p.StartTime - p.ArrivalTime
}

func (p *Process) String() string {
	return fmt.Sprintf("Process: (ID: %d, State: %s, Remaining: %d, Partition: %d)", p.ID, p.State, p.RemainingTime, p.Partition)
}

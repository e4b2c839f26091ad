// Package trace provides the transition and memory-occupancy logs of a simulation run.
// It has no dependencies on sim/ and stores pure data types.
package trace

// Transition kinds as they appear in the From/To fields of a TransitionRecord.
const (
	StateNew        = "NEW"
	StateReady      = "READY"
	StateRunning    = "RUNNING"
	StateWaiting    = "WAITING"
	StateTerminated = "TERMINATED"
)

// TransitionRecord captures one process state change.
type TransitionRecord struct {
	Clock int64  // Tick at which the transition happened
	PID   int    // Process ID
	From  string // Old state label
	To    string // New state label
}

// MemoryEvent names why the partition table changed.
type MemoryEvent string

const (
	MemoryAdmit   MemoryEvent = "admit"
	MemoryRelease MemoryEvent = "release"
)

// MemoryRecord captures partition occupancy right after an admission or release.
type MemoryRecord struct {
	Clock     int64
	PID       int
	Event     MemoryEvent
	Partition int   // Partition number that was assigned or freed
	UsedKB    int64 // Summed size of resident processes
	FreeKB    int64 // Summed capacity of free partitions
	TotalKB   int64 // Summed capacity of all partitions
	Occupancy []int // Occupant PID per partition in table order, -1 when free
}

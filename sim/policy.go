package sim

import (
	"fmt"
	"sort"
)

// DefaultQuantum is the round-robin time slice in ticks.
const DefaultQuantum int64 = 100

// Policy decides which READY process the CPU runs next.
// Implementations sort the slice in-place using sort.SliceStable so that
// ties keep queue (arrival) order.
type Policy interface {
	// Name returns the policy's registered name.
	Name() string
	// Order reorders the ready queue so that the next process to run is first.
	Order(ready []*Process)
	// ShouldPreempt reports whether candidate, the head of an ordered ready
	// queue, takes the CPU from running immediately.
	ShouldPreempt(running, candidate *Process) bool
	// Quantum returns the time slice in ticks; 0 means run to block or completion.
	Quantum() int64
}

// EPPolicy is non-preemptive external priority: lower Priority value runs first.
type EPPolicy struct{}

func (e *EPPolicy) Name() string { return "ep" }

func (e *EPPolicy) Order(ready []*Process) {
	sort.SliceStable(ready, func(i, j int) bool {
		return ready[i].Priority < ready[j].Priority
	})
}

func (e *EPPolicy) ShouldPreempt(_, _ *Process) bool { return false }

func (e *EPPolicy) Quantum() int64 { return 0 }

// EPRRPolicy is preemptive external priority with a round-robin time slice:
// higher Priority value runs first, and a strictly higher-priority arrival
// preempts the running process on the same tick. Equal priorities share the
// CPU through the quantum.
type EPRRPolicy struct {
	quantum int64
}

func (e *EPRRPolicy) Name() string { return "ep-rr" }

func (e *EPRRPolicy) Order(ready []*Process) {
	sort.SliceStable(ready, func(i, j int) bool {
		return ready[i].Priority > ready[j].Priority
	})
}

func (e *EPRRPolicy) ShouldPreempt(running, candidate *Process) bool {
	return candidate.Priority > running.Priority
}

func (e *EPRRPolicy) Quantum() int64 { return e.quantum }

// RRPolicy is plain round robin over a FIFO ready queue.
type RRPolicy struct {
	quantum int64
}

func (r *RRPolicy) Name() string { return "rr" }

func (r *RRPolicy) Order(_ []*Process) {
	// No-op: FIFO order preserved from enqueue order
}

func (r *RRPolicy) ShouldPreempt(_, _ *Process) bool { return false }

func (r *RRPolicy) Quantum() int64 { return r.quantum }

// ValidPolicies is the set of recognized policy names.
var ValidPolicies = map[string]bool{"ep": true, "ep-rr": true, "rr": true}

// IsValidPolicy returns true if name is a recognized policy.
func IsValidPolicy(name string) bool {
	return ValidPolicies[name]
}

// NewPolicy creates a Policy by name. Valid names: "ep", "ep-rr", "rr".
// quantum applies to the round-robin policies and is ignored by "ep".
// Panics on unrecognized names or a non-positive quantum for a round-robin policy.
func NewPolicy(name string, quantum int64) Policy {
	if !IsValidPolicy(name) {
		panic(fmt.Sprintf("unknown policy %q", name))
	}
	switch name {
	case "ep":
		return &EPPolicy{}
	case "ep-rr", "rr":
		if quantum <= 0 {
			panic(fmt.Sprintf("policy %q requires a positive quantum, got %d", name, quantum))
		}
		if name == "rr" {
			return &RRPolicy{quantum: quantum}
		}
		return &EPRRPolicy{quantum: quantum}
	default:
		panic(fmt.Sprintf("unhandled policy %q", name))
	}
}

// Implements the Registry, ReadyQueue and WaitSet.
// All three hold *Process references into a single store; no copies are kept.

package sim

import (
	"fmt"
	"strings"
)

// Registry is the authoritative store of every admitted process, keyed by ID.
// It only grows: terminated processes stay registered for reporting.
type Registry struct {
	byID  map[int]*Process
	order []int // admission order
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[int]*Process)}
}

// Put inserts p, or replaces the entry with the same ID in place.
func (r *Registry) Put(p *Process) {
	if _, ok := r.byID[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.byID[p.ID] = p
}

// Get returns the process with the given ID, or nil.
func (r *Registry) Get(id int) *Process {
	return r.byID[id]
}

// All returns the registered processes in admission order.
func (r *Registry) All() []*Process {
	out := make([]*Process, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of registered processes.
func (r *Registry) Len() int {
	return len(r.order)
}

// AllTerminated reports whether every registered process is TERMINATED.
// An empty registry is trivially all-terminated.
func (r *Registry) AllTerminated() bool {
	for _, p := range r.byID {
		if p.State != StateTerminated {
			return false
		}
	}
	return true
}

// ReadyQueue holds READY processes. Order is insertion order until a
// Policy reorders it.
type ReadyQueue struct {
	queue []*Process
}

// Enqueue adds a process to the back of the queue.
func (rq *ReadyQueue) Enqueue(p *Process) {
	rq.queue = append(rq.queue, p)
}

// Dequeue removes and returns the process at the front, or nil if empty.
func (rq *ReadyQueue) Dequeue() *Process {
	if len(rq.queue) == 0 {
		return nil
	}
	p := rq.queue[0]
	rq.queue = rq.queue[1:]
	return p
}

// Peek returns the process at the front without removing it.
// Returns nil if the queue is empty.
func (rq *ReadyQueue) Peek() *Process {
	if len(rq.queue) == 0 {
		return nil
	}
	return rq.queue[0]
}

// Len returns the number of queued processes.
func (rq *ReadyQueue) Len() int {
	return len(rq.queue)
}

// Reorder applies fn to the queue contents, allowing in-place reordering.
// fn MUST NOT change the slice length.
func (rq *ReadyQueue) Reorder(fn func([]*Process)) {
	if fn == nil {
		panic("Reorder: fn must not be nil")
	}
	n := len(rq.queue)
	fn(rq.queue)
	if len(rq.queue) != n {
		panic(fmt.Sprintf("Reorder: fn changed queue length from %d to %d", n, len(rq.queue)))
	}
}

func (rq *ReadyQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range rq.queue {
		fmt.Fprintf(&sb, "%d", p.ID)
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// WaitSet holds WAITING processes. Each member counts down independently,
// so membership order only affects the order of completion events within a tick.
type WaitSet struct {
	members []*Process
}

// Add puts a process into the set.
func (ws *WaitSet) Add(p *Process) {
	ws.members = append(ws.members, p)
}

// Len returns the number of waiting processes.
func (ws *WaitSet) Len() int {
	return len(ws.members)
}

// Tick decrements every member's RemainingIOTime by one and removes the
// members whose countdown reached zero. The finished members are returned
// in insertion order.
func (ws *WaitSet) Tick() []*Process {
	var done []*Process
	kept := ws.members[:0]
	for _, p := range ws.members {
		p.RemainingIOTime--
		if p.RemainingIOTime <= 0 {
			p.RemainingIOTime = 0
			done = append(done, p)
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(ws.members); i++ {
		ws.members[i] = nil
	}
	ws.members = kept
	return done
}

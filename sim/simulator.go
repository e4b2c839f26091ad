// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/procsim/sim/trace"
)

// Simulator is the core object that holds simulation time, system state, and the tick loop.
type Simulator struct {
	Clock   int64
	Horizon int64
	RunID   string
	Config  SimConfig
	Policy  Policy
	// Memory is the partition table owned by this run.
	Memory *PartitionTable
	// Registry has every admitted process; ReadyQ, WaitQ and Running reference into it.
	Registry *Registry
	ReadyQ   *ReadyQueue
	WaitQ    *WaitSet
	// Running is the process on the CPU, or nil when the CPU is idle.
	Running *Process
	Trace   *trace.SimulationTrace

	pending         []*Process    // arrived-or-future processes without memory, input order
	rejected        []ProcessSpec // processes larger than every partition
	quantumUsed     int64         // consecutive ticks the running process has executed
	contextSwitches int
	log             *logrus.Entry
}

// Result is everything a finished run hands to its reporters.
type Result struct {
	RunID    string
	Policy   string
	EndClock int64
	Trace    *trace.SimulationTrace
	Metrics  Metrics
	// Processes is the final registry content in admission order.
	Processes []*Process
	// Rejected lists processes that no partition can ever hold; they never became READY.
	Rejected []ProcessSpec
	// Unfinished lists IDs still not TERMINATED when the horizon cut the run short.
	Unfinished []int
}

// NewSimulator validates cfg and the process list and prepares a run.
// Processes larger than every partition are set aside as rejected rather than
// failing the run.
func NewSimulator(cfg SimConfig, specs []ProcessSpec) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sim config: %w", err)
	}
	runID := xid.New().String()
	s := &Simulator{
		Clock:    0,
		Horizon:  cfg.Horizon,
		RunID:    runID,
		Config:   cfg,
		Policy:   NewPolicy(cfg.Policy, cfg.Quantum),
		Memory:   NewPartitionTable(cfg.Partitions),
		Registry: NewRegistry(),
		ReadyQ:   &ReadyQueue{},
		WaitQ:    &WaitSet{},
		Trace:    trace.NewSimulationTrace(runID),
		log:      logrus.WithFields(logrus.Fields{"run": runID, "policy": cfg.Policy}),
	}

	seen := make(map[int]bool, len(specs))
	for _, spec := range specs {
		if seen[spec.ID] {
			return nil, fmt.Errorf("duplicate process id %d", spec.ID)
		}
		seen[spec.ID] = true
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		if !s.Memory.Fits(spec.Size) {
			s.log.Warnf("process %d needs %d KB, larger than any partition; it will never be admitted", spec.ID, spec.Size)
			s.rejected = append(s.rejected, spec)
			continue
		}
		s.pending = append(s.pending, NewProcess(spec))
	}
	return s, nil
}

// Rejected returns the processes that can never be admitted.
func (sim *Simulator) Rejected() []ProcessSpec {
	return sim.rejected
}

// Pending returns the processes still waiting for admission, in input order.
func (sim *Simulator) Pending() []*Process {
	return sim.pending
}

// Done reports whether the run has nothing left to do.
func (sim *Simulator) Done() bool {
	return len(sim.pending) == 0 &&
		sim.ReadyQ.Len() == 0 &&
		sim.WaitQ.Len() == 0 &&
		sim.Running == nil &&
		sim.Registry.AllTerminated()
}

// Run steps the simulation until every admissible process terminates or the
// horizon is passed, then computes metrics.
func (sim *Simulator) Run() *Result {
	sim.log.Infof("[tick %07d] Starting simulation with %d processes (%d rejected)", sim.Clock, len(sim.pending), len(sim.rejected))
	for !sim.Done() {
		if sim.Clock > sim.Horizon {
			sim.log.Warnf("[tick %07d] Horizon %d reached with work remaining", sim.Clock, sim.Horizon)
			break
		}
		sim.Step()
	}
	sim.log.Infof("[tick %07d] Simulation ended", sim.Clock)

	metrics := ComputeMetrics(sim.Registry)
	metrics.ContextSwitches = sim.contextSwitches
	return &Result{
		RunID:      sim.RunID,
		Policy:     sim.Policy.Name(),
		EndClock:   sim.Clock,
		Trace:      sim.Trace,
		Metrics:    metrics,
		Processes:  sim.Registry.All(),
		Rejected:   sim.rejected,
		Unfinished: sim.unfinished(),
	}
}

// Step simulates one tick: arrival, I/O completion, preemption check,
// dispatch and execution, in that order, then advances the clock.
func (sim *Simulator) Step() {
	sim.admitArrivals()
	sim.completeIO()
	sim.checkPreemption()
	sim.dispatch()
	sim.execute()
	sim.Clock++
	sim.skipIdle()
}

// admitArrivals gives memory to every pending process that has arrived.
// A process that finds no free partition stays pending and is retried on
// every following tick.
func (sim *Simulator) admitArrivals() {
	kept := sim.pending[:0]
	for _, p := range sim.pending {
		if p.ArrivalTime > sim.Clock || !sim.Memory.Assign(p) {
			kept = append(kept, p)
			continue
		}
		p.LastReadyTime = sim.Clock
		sim.Registry.Put(p)
		sim.transition(p, StateReady)
		sim.ReadyQ.Enqueue(p)
		sim.recordMemory(p, trace.MemoryAdmit, p.Partition)
	}
	sim.pending = kept
}

// completeIO counts down every waiting process and readies those that finished.
func (sim *Simulator) completeIO() {
	for _, p := range sim.WaitQ.Tick() {
		p.LastReadyTime = sim.Clock
		sim.transition(p, StateReady)
		sim.ReadyQ.Enqueue(p)
	}
}

// checkPreemption lets the policy take the CPU from the running process.
func (sim *Simulator) checkPreemption() {
	if sim.Running == nil || sim.ReadyQ.Len() == 0 {
		return
	}
	sim.ReadyQ.Reorder(sim.Policy.Order)
	if !sim.Policy.ShouldPreempt(sim.Running, sim.ReadyQ.Peek()) {
		return
	}
	p := sim.Running
	sim.log.Debugf("[tick %07d] P%d preempted by P%d", sim.Clock, p.ID, sim.ReadyQ.Peek().ID)
	p.LastReadyTime = sim.Clock
	sim.transition(p, StateReady)
	sim.ReadyQ.Enqueue(p)
	sim.releaseCPU()
}

// dispatch puts the policy's next choice on an idle CPU.
func (sim *Simulator) dispatch() {
	if sim.Running != nil || sim.ReadyQ.Len() == 0 {
		return
	}
	sim.ReadyQ.Reorder(sim.Policy.Order)
	sim.log.Debugf("[tick %07d] ready queue %s", sim.Clock, sim.ReadyQ)
	p := sim.ReadyQ.Dequeue()
	p.TotalWaitTime += sim.Clock - p.LastReadyTime
	if !p.Started() {
		p.StartTime = sim.Clock
	}
	sim.transition(p, StateRunning)
	sim.Running = p
	sim.quantumUsed = 0
	sim.contextSwitch()
}

// execute runs the CPU for one tick. At most one of I/O request,
// termination and quantum expiry fires, checked in that order.
func (sim *Simulator) execute() {
	p := sim.Running
	if p == nil {
		return
	}
	p.RemainingTime--
	sim.quantumUsed++
	cpuUsed := p.CPUUsed()

	switch {
	case p.IOFrequency > 0 && cpuUsed > 0 && cpuUsed%p.IOFrequency == 0 && p.RemainingTime > 0:
		p.RemainingIOTime = p.IODuration
		sim.transition(p, StateWaiting)
		sim.WaitQ.Add(p)
	case p.RemainingTime == 0:
		p.CompletionTime = sim.Clock + 1
		sim.transition(p, StateTerminated)
		partition := p.Partition
		sim.Memory.Release(p)
		sim.recordMemory(p, trace.MemoryRelease, partition)
	case sim.Policy.Quantum() > 0 && sim.quantumUsed >= sim.Policy.Quantum():
		p.LastReadyTime = sim.Clock
		sim.transition(p, StateReady)
		sim.ReadyQ.Enqueue(p)
	default:
		return
	}
	sim.releaseCPU()
}

// releaseCPU idles the CPU after the running process left it.
func (sim *Simulator) releaseCPU() {
	sim.Running = nil
	sim.quantumUsed = 0
	sim.contextSwitch()
}

// contextSwitch charges the fixed overhead once for the transition just logged.
func (sim *Simulator) contextSwitch() {
	sim.contextSwitches++
	sim.Clock += sim.Config.ContextSwitchOverhead
}

// skipIdle jumps to the next arrival when nothing is ready, waiting or running.
// In that state every partition is free, so no admission can be missed.
func (sim *Simulator) skipIdle() {
	if sim.Running != nil || sim.ReadyQ.Len() > 0 || sim.WaitQ.Len() > 0 || len(sim.pending) == 0 {
		return
	}
	next := sim.pending[0].ArrivalTime
	for _, p := range sim.pending[1:] {
		next = min(next, p.ArrivalTime)
	}
	if next > sim.Clock {
		sim.log.Debugf("[tick %07d] CPU idle, skipping to next arrival at %d", sim.Clock, next)
		sim.Clock = next
	}
}

func (sim *Simulator) transition(p *Process, to ProcessState) {
	from := p.State
	p.State = to
	sim.Trace.RecordTransition(trace.TransitionRecord{
		Clock: sim.Clock,
		PID:   p.ID,
		From:  from.String(),
		To:    to.String(),
	})
	sim.log.Debugf("[tick %07d] P%d %s -> %s", sim.Clock, p.ID, from, to)
}

func (sim *Simulator) recordMemory(p *Process, event trace.MemoryEvent, partition int) {
	sim.Trace.RecordMemory(trace.MemoryRecord{
		Clock:     sim.Clock,
		PID:       p.ID,
		Event:     event,
		Partition: partition,
		UsedKB:    sim.Memory.UsedKB(),
		FreeKB:    sim.Memory.FreeKB(),
		TotalKB:   sim.Memory.TotalKB(),
		Occupancy: sim.Memory.Occupancy(),
	})
}

func (sim *Simulator) unfinished() []int {
	var ids []int
	for _, p := range sim.Registry.All() {
		if p.State != StateTerminated {
			ids = append(ids, p.ID)
		}
	}
	for _, p := range sim.pending {
		ids = append(ids, p.ID)
	}
	return ids
}

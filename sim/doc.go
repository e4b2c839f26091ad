// Package sim provides the core discrete-event engine for procsim, a
// single-CPU scheduling and fixed-partition memory simulator.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - process.go: Process lifecycle (NEW → READY → RUNNING → WAITING/TERMINATED)
//   - policy.go: the three dispatch policies (ep, ep-rr, rr)
//   - simulator.go: the tick loop that sequences arrival, I/O completion,
//     preemption, dispatch and execution
//
// # Architecture
//
// The sim package owns all mutable run state; helpers live in sub-packages:
//   - sim/trace/: transition and memory-occupancy records, summaries, CSV export
//   - sim/workload/: parsing of process list input files
//
// Memory is a PartitionTable owned by each Simulator. Processes are stored once
// in a Registry; the ready queue and wait set hold references into that store,
// so a mutation through any queue is visible everywhere.
//
// # Key Interfaces
//
//   - Policy: orders the ready queue, decides priority preemption and the quantum
package sim

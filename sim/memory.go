// sim/memory.go
package sim

import (
	"fmt"
)

// Free marks a partition that holds no process.
const Free = -1

// DefaultPartitionCapacities is the static partition layout in KB, largest first.
var DefaultPartitionCapacities = []int64{40, 25, 15, 10, 8, 2}

// Partition is a fixed-capacity memory slot that holds at most one process.
type Partition struct {
	Number       int   // 1-based partition number; 1 is the largest
	Capacity     int64 // Capacity in KB
	Occupied     bool  // Whether a process holds the partition
	Occupant     int   // ID of the occupying process, or Free
	OccupantSize int64 // Size in KB of the occupying process; 0 when free
}

// IsFree reports whether the partition can accept a process.
func (p Partition) IsFree() bool {
	return !p.Occupied
}

// PartitionTable owns the partition layout and occupancy for one simulation.
// Partitions are kept in configuration order (descending capacity).
type PartitionTable struct {
	partitions []Partition
}

// NewPartitionTable creates a table with every partition free.
// Partition numbers follow the order of capacities, starting at 1.
func NewPartitionTable(capacities []int64) *PartitionTable {
	pt := &PartitionTable{partitions: make([]Partition, len(capacities))}
	for i, c := range capacities {
		pt.partitions[i] = Partition{Number: i + 1, Capacity: c, Occupant: Free}
	}
	return pt
}

// Assign places p in the first free partition large enough for it, scanning
// from the last (smallest) partition toward the first (largest).
// Returns false and leaves p unchanged if no partition is available.
func (pt *PartitionTable) Assign(p *Process) bool {
	if p.Partition != NoPartition {
		panic(fmt.Sprintf("Assign: process %d already holds partition %d", p.ID, p.Partition))
	}
	for i := len(pt.partitions) - 1; i >= 0; i-- {
		part := &pt.partitions[i]
		if part.IsFree() && p.Size <= part.Capacity {
			part.Occupied = true
			part.Occupant = p.ID
			part.OccupantSize = p.Size
			p.Partition = part.Number
			return true
		}
	}
	return false
}

// Release frees the partition held by p. Returns false if p held none.
func (pt *PartitionTable) Release(p *Process) bool {
	if p.Partition < 1 || p.Partition > len(pt.partitions) {
		return false
	}
	part := &pt.partitions[p.Partition-1]
	if !part.Occupied || part.Occupant != p.ID {
		return false
	}
	part.Occupied = false
	part.Occupant = Free
	part.OccupantSize = 0
	p.Partition = NoPartition
	return true
}

// Fits reports whether some partition could ever hold a process of the given size.
func (pt *PartitionTable) Fits(size int64) bool {
	for _, part := range pt.partitions {
		if size <= part.Capacity {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the partitions in table order.
func (pt *PartitionTable) Snapshot() []Partition {
	out := make([]Partition, len(pt.partitions))
	copy(out, pt.partitions)
	return out
}

// UsedKB returns the summed sizes of all occupying processes.
func (pt *PartitionTable) UsedKB() int64 {
	var used int64
	for _, part := range pt.partitions {
		used += part.OccupantSize
	}
	return used
}

// FreeKB returns the summed capacity of free partitions, i.e. memory that can
// still be handed out. Internal fragmentation of occupied partitions is excluded.
func (pt *PartitionTable) FreeKB() int64 {
	var free int64
	for _, part := range pt.partitions {
		if part.IsFree() {
			free += part.Capacity
		}
	}
	return free
}

// TotalKB returns the summed capacity of all partitions.
func (pt *PartitionTable) TotalKB() int64 {
	var total int64
	for _, part := range pt.partitions {
		total += part.Capacity
	}
	return total
}

// Occupancy returns the occupant of each partition in table order (Free for empty ones).
func (pt *PartitionTable) Occupancy() []int {
	out := make([]int, len(pt.partitions))
	for i, part := range pt.partitions {
		out[i] = Free
		if part.Occupied {
			out[i] = part.Occupant
		}
	}
	return out
}

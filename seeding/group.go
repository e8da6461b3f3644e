package seeding

import "sync"

// Group models one cooperating worker group: a fixed number of logical lanes
// executing a shared routine, synchronized only by the group barrier and
// atomic flags. Lanes run as goroutines; the algorithm's correctness does not
// depend on physical parallelism.
type Group struct {
	lanes int
}

// NewGroup creates a group with the given lane count.
func NewGroup(lanes int) Group {
	if lanes < 1 {
		lanes = 1
	}
	return Group{lanes: lanes}
}

// Lanes returns the lane count.
func (g Group) Lanes() int { return g.lanes }

// Lane is the per-lane execution context handed to the group routine.
type Lane struct {
	// Index is the lane's position within the group, 0-based. Lane 0 is
	// the elected leader.
	Index int
	// Count is the group's lane count.
	Count int

	barrier *Barrier
}

// Leader reports whether this lane is the group leader.
func (l *Lane) Leader() bool { return l.Index == 0 }

// Sync blocks until every lane of the group has reached the same point.
func (l *Lane) Sync() { l.barrier.Await() }

// Run executes the routine on every lane and returns when all lanes have
// finished.
func (g Group) Run(routine func(lane *Lane)) {
	barrier := NewBarrier(g.lanes)

	var wg sync.WaitGroup
	wg.Add(g.lanes)
	for i := 0; i < g.lanes; i++ {
		go func(idx int) {
			defer wg.Done()
			routine(&Lane{Index: idx, Count: g.lanes, barrier: barrier})
		}(i)
	}
	wg.Wait()
}

// Package seeding implements the particle population algorithm: one
// cooperating worker group per supercell computes per-cell macro-particle
// counts from a density profile, then iteratively allocates frames from the
// shared pool and fills one particle per still-active cell per round until
// every count is exhausted.
package seeding

import "sync"

// Barrier is a reusable full-group barrier. All lanes of a group must reach
// Await before any of them continues; the barrier then resets for the next
// phase.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	lanes      int
	waiting    int
	generation uint64
}

// NewBarrier creates a barrier for the given lane count.
func NewBarrier(lanes int) *Barrier {
	b := &Barrier{lanes: lanes}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Await blocks until all lanes have arrived.
func (b *Barrier) Await() {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.generation
	b.waiting++
	if b.waiting == b.lanes {
		b.waiting = 0
		b.generation++
		b.cond.Broadcast()
		return
	}
	for gen == b.generation {
		b.cond.Wait()
	}
}

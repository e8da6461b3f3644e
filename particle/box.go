package particle

import "github.com/nzeal/picongpu/grid"

// Box is the particle box: it owns one append-only frame chain per supercell,
// with frames drawn from a shared pool. Chains of distinct supercells are
// independent; within one supercell only the group's leader lane appends, so
// the chains themselves need no locking.
type Box struct {
	pool   *Pool
	ext    grid.Idx3 // supercell extent including guards
	chains []chain
}

type chain struct {
	first, last ID
	n           int
}

// NewBox creates a box covering the given supercell extent (guards included).
func NewBox(pool *Pool, superCells grid.Idx3) *Box {
	chains := make([]chain, superCells.Volume())
	for i := range chains {
		chains[i] = chain{first: Invalid, last: Invalid}
	}
	return &Box{pool: pool, ext: superCells, chains: chains}
}

// Pool returns the shared frame allocator.
func (b *Box) Pool() *Pool { return b.pool }

// GetEmptyFrame draws a scrubbed frame from the pool.
func (b *Box) GetEmptyFrame() (ID, error) { return b.pool.AllocEmpty() }

// SetAsLastFrame appends the frame to the supercell's chain, making it the
// new write target.
func (b *Box) SetAsLastFrame(id ID, superCell grid.Idx3) {
	c := &b.chains[grid.Flatten(superCell, b.ext)]
	if c.last != Invalid {
		b.pool.Frame(c.last).next = id
	} else {
		c.first = id
	}
	c.last = id
	c.n++
}

// Frame resolves a handle to its frame.
func (b *Box) Frame(id ID) *Frame { return b.pool.Frame(id) }

// LastFrame returns the supercell's current write target, or Invalid.
func (b *Box) LastFrame(superCell grid.Idx3) ID {
	return b.chains[grid.Flatten(superCell, b.ext)].last
}

// FrameCount returns the chain length of the supercell.
func (b *Box) FrameCount(superCell grid.Idx3) int {
	return b.chains[grid.Flatten(superCell, b.ext)].n
}

// Frames returns the supercell's frame handles in append order.
func (b *Box) Frames(superCell grid.Idx3) []ID {
	c := b.chains[grid.Flatten(superCell, b.ext)]
	ids := make([]ID, 0, c.n)
	for id := c.first; id != Invalid; id = b.pool.Frame(id).next {
		ids = append(ids, id)
	}
	return ids
}

// ActiveCount sums the active slots across the supercell's chain.
func (b *Box) ActiveCount(superCell grid.Idx3) int {
	n := 0
	for _, id := range b.Frames(superCell) {
		n += b.pool.Frame(id).ActiveCount()
	}
	return n
}

package particle

import (
	"errors"
	"sync"
)

// ErrExhausted is returned when the pool has no free frame left. Population
// treats this as fatal and aborts the run rather than blocking the group.
var ErrExhausted = errors.New("particle: frame pool exhausted")

// Pool is the shared frame allocator. All frames have the same slot count and
// attribute schema; handles are arena indices. Allocation is serialized
// internally so concurrently running groups never receive the same frame.
type Pool struct {
	mu     sync.Mutex
	frames []*Frame
	free   []ID
}

// NewPool pre-allocates an arena of capacity frames with the given slot count
// and attribute schema.
func NewPool(capacity, slots int, schema Schema) *Pool {
	p := &Pool{
		frames: make([]*Frame, capacity),
		free:   make([]ID, capacity),
	}
	for i := range p.frames {
		p.frames[i] = newFrame(slots, schema)
		// Issue low indices first.
		p.free[i] = ID(capacity - 1 - i)
	}
	return p
}

// AllocEmpty hands out a scrubbed frame. The same handle is never issued
// twice without an intervening Release.
func (p *Pool) AllocEmpty() (ID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) == 0 {
		return Invalid, ErrExhausted
	}
	id := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.frames[id].scrub()
	return id, nil
}

// Release returns a frame to the pool. Population never frees frames; this
// exists for teardown between runs.
func (p *Pool) Release(id ID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.free = append(p.free, id)
}

// Frame resolves a handle to its frame.
func (p *Pool) Frame(id ID) *Frame { return p.frames[id] }

// Capacity returns the arena size in frames.
func (p *Pool) Capacity() int { return len(p.frames) }

// InUse returns the number of frames currently issued.
func (p *Pool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames) - len(p.free)
}

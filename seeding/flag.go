package seeding

import "sync/atomic"

// Flag is the shared convergence flag of one worker group. Set means "no
// further work"; any lane that still has work clears it. Clear is an atomic
// clear-if-set exchange, so concurrent clears from many lanes are safe and
// cheap.
type Flag struct {
	v atomic.Uint32
}

// Set marks the group as done. Only the leader lane calls this, between
// barriers.
func (f *Flag) Set() { f.v.Store(1) }

// Clear atomically drops the done mark if it is set.
func (f *Flag) Clear() { f.v.CompareAndSwap(1, 0) }

// IsSet reports whether the group is done.
func (f *Flag) IsSet() bool { return f.v.Load() == 1 }

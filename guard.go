package asyncseq

import "sync"

// Guard is a mutual-exclusion cell owning a single value of type V.
//
// Every state machine in this package follows the same locking
// discipline: the critical section computes a decision and mutates the
// guarded value, and every externally observable effect (resuming a
// suspended receiver, invoking a callback) runs strictly after the lock
// is released. Guard encodes that discipline: the critical section
// returns the follow-up action and [Guard.Do] runs it once the lock is
// free, keeping lock hold times O(1) and ruling out re-entrant deadlock.
type Guard[V any] struct {
	mu sync.Mutex
	v  V
}

// NewGuard creates a Guard owning v.
func NewGuard[V any](v V) *Guard[V] {
	return &Guard[V]{v: v}
}

// Do runs crit with exclusive access to the guarded value. If crit
// returns a non-nil action, Do invokes it after releasing the lock.
//
// crit must not block, suspend, or call back into the same Guard.
func (g *Guard[V]) Do(crit func(v *V) func()) {
	action := func() func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		return crit(&g.v)
	}()

	if action != nil {
		action()
	}
}

// Locked runs crit with exclusive access to g's value and returns its
// result. Like [Guard.Do], crit must not block; act on the returned
// decision only after Locked returns.
//
// This is a function and not a method because Go does not support
// generic methods on generic types.
func Locked[V, R any](g *Guard[V], crit func(v *V) R) R {
	g.mu.Lock()
	defer g.mu.Unlock()

	return crit(&g.v)
}

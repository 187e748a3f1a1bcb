package index

import "sync/atomic"

// runLock provides non-blocking lock semantics for full index runs. Only one
// full index may mutate a store at a time; concurrent attempts fail fast
// instead of queueing.
type runLock struct {
	state atomic.Int32 // 0 = unlocked, 1 = locked
}

// TryAcquire attempts to acquire the lock without blocking
func (l *runLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release releases the lock. Must only be called after a successful acquire.
func (l *runLock) Release() {
	l.state.Store(0)
}

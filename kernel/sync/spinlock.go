// Package sync provides synchronization primitives that remain usable from
// interrupt-handling contexts.
package sync

import "sync/atomic"

var (
	// relaxFn, when non-nil, is invoked between failed acquisition
	// attempts. Tests substitute runtime.Gosched here so that contending
	// goroutines can make progress.
	relaxFn func()
)

// Spinlock implements a lock where each task trying to acquire it busy-waits
// till the lock becomes available. Unlike a sleeping mutex, a Spinlock may be
// acquired while interrupts are disabled; multi-step register transactions on
// a shared interrupt controller are expected to be bracketed by one.
type Spinlock struct {
	state uint32
}

// Acquire blocks until the lock can be acquired by the currently active task.
// Any attempt to re-acquire a lock already held by the current task will
// cause a deadlock.
func (l *Spinlock) Acquire() {
	for !l.TryToAcquire() {
		if relaxFn != nil {
			relaxFn()
		}
	}
}

// TryToAcquire attempts to acquire the lock and returns true if the lock
// could be acquired or false otherwise.
func (l *Spinlock) TryToAcquire() bool {
	return atomic.SwapUint32(&l.state, 1) == 0
}

// Release relinquishes a held lock allowing other tasks to acquire it.
// Calling Release while the lock is free has no effect.
func (l *Spinlock) Release() {
	atomic.StoreUint32(&l.state, 0)
}

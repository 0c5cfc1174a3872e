package vgatext

import (
	"runtime"
	"sync/atomic"
)

// SpinLock is a busy-waiting mutual exclusion lock for code that has no
// scheduler to block on. It is not reentrant: a holder that calls Lock again
// spins forever. There is no timeout and no priority inheritance.
//
// The zero value is an unlocked lock.
type SpinLock struct {
	state atomic.Uint32
}

// Lock spins until the lock is acquired
func (l *SpinLock) Lock() {
	for !l.state.CompareAndSwap(0, 1) {
		for l.state.Load() != 0 {
			spinHint()
		}
	}
}

// TryLock acquires the lock if it is free and reports whether it did
func (l *SpinLock) TryLock() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Unlock releases the lock. Unlocking a free lock is a bug and panics.
func (l *SpinLock) Unlock() {
	if !l.state.CompareAndSwap(1, 0) {
		panic("vgatext: unlock of unlocked SpinLock")
	}
}

// Locked reports whether the lock is currently held
func (l *SpinLock) Locked() bool {
	return l.state.Load() != 0
}

// spinHint lets other goroutines run when the spinning holder is hosted.
// On a single core with no scheduler it is a plain busy loop step.
var spinHint = runtime.Gosched

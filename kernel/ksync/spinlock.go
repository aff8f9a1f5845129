// Package ksync provides the spinning, IRQ-unsafe lock used to guard UART
// MMIO access from kernel/klog, adapted from gopher-os's
// kernel/sync/spinlock.go.
package ksync

import "sync/atomic"

const (
	unlocked uint32 = 0
	locked   uint32 = 1
)

// Spinlock is a non-reentrant, non-fair spinlock. It is IRQ-unsafe: a
// caller taking it from trap context must already be running with
// interrupts disabled, or it can deadlock against itself.
type Spinlock struct {
	state uint32
}

// Acquire spins until the lock is taken.
func (s *Spinlock) Acquire() {
	for !s.TryAcquire() {
	}
}

// TryAcquire attempts to take the lock without spinning, reporting success.
func (s *Spinlock) TryAcquire() bool {
	return atomic.CompareAndSwapUint32(&s.state, unlocked, locked)
}

// Release gives up the lock.
func (s *Spinlock) Release() {
	atomic.StoreUint32(&s.state, unlocked)
}

package engine

import (
	"context"

	"golang.org/x/sync/semaphore"

	"nestedset/internal/ports"
)

// Lock is a context-aware mutex guarding one tree.
type Lock struct {
	sem *semaphore.Weighted
}

// Ensure Lock implements Locker
var _ ports.Locker = (*Lock)(nil)

// NewLock returns an unlocked Lock.
func NewLock() *Lock {
	return &Lock{sem: semaphore.NewWeighted(1)}
}

// Lock blocks until the lock is held or ctx is done.
func (l *Lock) Lock(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

// Unlock releases the lock.
func (l *Lock) Unlock() {
	l.sem.Release(1)
}

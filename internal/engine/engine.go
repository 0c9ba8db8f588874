// Package engine maintains a nested-set index over the records of one list.
//
// Reads go through Queries. Structural changes run inside a Unit, which wraps
// one store transaction: every shift a mutator computes is written in that
// transaction and committed or rolled back as a whole. Shifts are not
// idempotent, so nothing is ever retried.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"nestedset/internal/application"
	"nestedset/internal/ports"
)

// Tree is the nested-set engine bound to one list and hierarchy field.
type Tree struct {
	store  ports.TreeStore
	lock   ports.Locker
	log    *slog.Logger
	halted atomic.Bool
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger mutators report to.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tree) {
		if l != nil {
			t.log = l
		}
	}
}

// WithLocker replaces the in-process tree lock, for example with one shared
// by several Trees over the same list.
func WithLocker(l ports.Locker) Option {
	return func(t *Tree) {
		if l != nil {
			t.lock = l
		}
	}
}

// New creates an engine over store.
func New(store ports.TreeStore, opts ...Option) *Tree {
	t := &Tree{
		store: store,
		lock:  NewLock(),
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.With(
		slog.String("list", store.List()),
		slog.String("field", store.Field().Name),
	)
	return t
}

// Store returns the underlying store handle.
func (t *Tree) Store() ports.TreeStore {
	return t.store
}

// Queries reads committed state.
func (t *Tree) Queries() *Queries {
	q := newQueries(t.store, t.store.List(), t.store.Field().Name)
	return &q
}

// Halted reports whether a failed rollback has stopped all mutations.
func (t *Tree) Halted() bool {
	return t.halted.Load()
}

// Resume clears the halted state. Call it only after the tree was verified.
func (t *Tree) Resume() {
	if t.halted.CompareAndSwap(true, false) {
		t.log.Warn("nested set mutations resumed")
	}
}

// Update runs fn in a new unit of work. The tree lock is held and a store
// transaction is open for the whole call. If fn returns an error the
// transaction is rolled back and the error returned unchanged; commit
// failures come back as *application.TransactionError.
func (t *Tree) Update(ctx context.Context, op string, fn func(ctx context.Context, u *Unit) error) error {
	if t.halted.Load() {
		return fmt.Errorf("%s: %w", op, application.ErrTreeHalted)
	}
	if err := t.lock.Lock(ctx); err != nil {
		return fmt.Errorf("%s: acquire tree lock: %w", op, err)
	}
	defer t.lock.Unlock()

	tx, err := t.store.BeginTx(ctx)
	if err != nil {
		return &application.TransactionError{Op: op, Err: err}
	}

	u := &Unit{
		Queries: newQueries(tx, t.store.List(), t.store.Field().Name),
		tx:      tx,
		op:      op,
		log:     t.log,
	}
	if err := fn(ctx, u); err != nil {
		t.rollback(op, tx, err)
		return err
	}
	if err := tx.Commit(); err != nil {
		t.rollback(op, tx, err)
		return &application.TransactionError{Op: op, Err: err}
	}

	t.log.Debug("nested set unit committed", slog.String("op", op), slog.Int("rows", u.written))
	return nil
}

func (t *Tree) rollback(op string, tx ports.TreeTx, cause error) {
	if err := tx.Rollback(); err != nil {
		t.halted.Store(true)
		t.log.Error("nested set rollback failed, mutations halted",
			slog.String("op", op),
			slog.String("cause", cause.Error()),
			slog.String("error", err.Error()))
		return
	}
	t.log.Debug("nested set unit rolled back", slog.String("op", op), slog.String("cause", cause.Error()))
}

// Package memory is an in-process record store. Transactions work on a copy
// of the list taken at BeginTx and replace it on Commit, so a failed unit of
// work leaves nothing behind.
package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"golang.org/x/sync/semaphore"

	"nestedset/internal/domain"
	"nestedset/internal/ports"
)

// ErrFault is returned by operations failed through Faults.
var ErrFault = errors.New("memory: injected fault")

// Faults makes chosen operations fail. Used to exercise rollback paths.
type Faults struct {
	// FailUpdateAfter fails the UpdateOne call after that many successful
	// ones in a transaction. Zero disables it, a negative value fails every
	// call.
	FailUpdateAfter int
	FailCommit      bool
	FailRollback    bool
}

type row struct {
	id     string
	label  string
	seq    int
	bounds map[string]domain.Bounds
}

func (r *row) clone() *row {
	c := *r
	c.bounds = maps.Clone(r.bounds)
	return &c
}

type table map[string]*row

func (t table) clone() table {
	c := make(table, len(t))
	for id, r := range t {
		c[id] = r.clone()
	}
	return c
}

// Database holds every list in memory.
type Database struct {
	mu     sync.RWMutex
	lists  map[string]table
	seq    int
	writer *semaphore.Weighted

	faultsMu sync.Mutex
	faults   Faults
}

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	return &Database{
		lists:  make(map[string]table),
		writer: semaphore.NewWeighted(1),
	}
}

// SetFaults replaces the injected faults.
func (db *Database) SetFaults(f Faults) {
	db.faultsMu.Lock()
	defer db.faultsMu.Unlock()
	db.faults = f
}

func (db *Database) currentFaults() Faults {
	db.faultsMu.Lock()
	defer db.faultsMu.Unlock()
	return db.faults
}

// Tree returns a handle on list scoped to field.
func (db *Database) Tree(list string, field domain.Field) (*Tree, error) {
	if !domain.IsIdentifier(list) {
		return nil, fmt.Errorf("invalid list name %q", list)
	}
	if err := field.Validate(); err != nil {
		return nil, err
	}
	db.mu.Lock()
	if _, ok := db.lists[list]; !ok {
		db.lists[list] = make(table)
	}
	db.mu.Unlock()
	return &Tree{db: db, list: list, field: field}, nil
}

// Tree implements ports.TreeStore over one list of a Database.
type Tree struct {
	db    *Database
	list  string
	field domain.Field
}

// Ensure Tree implements TreeStore
var _ ports.TreeStore = (*Tree)(nil)

// List returns the list name
func (t *Tree) List() string { return t.list }

// Field returns the hierarchy field
func (t *Tree) Field() domain.Field { return t.field }

func (t *Tree) snapshot() table {
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()
	return t.db.lists[t.list]
}

// FindOne retrieves a record by id
func (t *Tree) FindOne(ctx context.Context, id string) (*domain.Record, error) {
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()
	return findOne(t.db.lists[t.list], t.field, id), nil
}

// FindMany retrieves the records matching filter
func (t *Tree) FindMany(ctx context.Context, filter domain.Filter, order domain.Order) ([]domain.Record, error) {
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()
	return findMany(t.db.lists[t.list], t.field, filter, order), nil
}

// Count counts the records matching filter
func (t *Tree) Count(ctx context.Context, filter domain.Filter) (int, error) {
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()
	return len(findMany(t.db.lists[t.list], t.field, filter, domain.OrderAsc)), nil
}

// BeginTx starts a new transaction. It blocks until every other transaction
// of the database has finished or ctx is done.
func (t *Tree) BeginTx(ctx context.Context) (ports.RecordTx, error) {
	if err := t.db.writer.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return &tx{
		tree:   t,
		rows:   t.snapshot().clone(),
		faults: t.db.currentFaults(),
	}, nil
}

func toRecord(r *row, field domain.Field) domain.Record {
	rec := domain.Record{ID: r.id, Label: r.label}
	if b, ok := r.bounds[field.Name]; ok {
		rec.Bounds = &b
	}
	return rec
}

func findOne(rows table, field domain.Field, id string) *domain.Record {
	r, ok := rows[id]
	if !ok {
		return nil
	}
	rec := toRecord(r, field)
	return &rec
}

func findMany(rows table, field domain.Field, filter domain.Filter, order domain.Order) []domain.Record {
	if filter.Empty() {
		return nil
	}
	var out []domain.Record
	seq := make(map[string]int, len(rows))
	for _, r := range rows {
		rec := toRecord(r, field)
		if filter.Match(rec) {
			out = append(out, rec)
			seq[rec.ID] = r.seq
		}
	}
	slices.SortFunc(out, func(a, b domain.Record) int {
		switch {
		case a.Bounds == nil && b.Bounds == nil:
			return seq[a.ID] - seq[b.ID]
		case a.Bounds == nil:
			return 1
		case b.Bounds == nil:
			return -1
		case order.Desc:
			return b.Bounds.Left - a.Bounds.Left
		default:
			return a.Bounds.Left - b.Bounds.Left
		}
	})
	return out
}

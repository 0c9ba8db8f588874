package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nestedset/internal/domain"
	"nestedset/internal/ports"
)

var errTxDone = errors.New("memory: transaction already finished")

// tx implements ports.RecordTx
type tx struct {
	tree    *Tree
	rows    table
	faults  Faults
	updates int
	done    bool
}

// Ensure tx implements RecordTx
var _ ports.RecordTx = (*tx)(nil)

func (t *tx) FindOne(ctx context.Context, id string) (*domain.Record, error) {
	if t.done {
		return nil, errTxDone
	}
	return findOne(t.rows, t.tree.field, id), nil
}

func (t *tx) FindMany(ctx context.Context, filter domain.Filter, order domain.Order) ([]domain.Record, error) {
	if t.done {
		return nil, errTxDone
	}
	return findMany(t.rows, t.tree.field, filter, order), nil
}

func (t *tx) Count(ctx context.Context, filter domain.Filter) (int, error) {
	if t.done {
		return 0, errTxDone
	}
	return len(findMany(t.rows, t.tree.field, filter, domain.OrderAsc)), nil
}

// UpdateOne patches the hierarchy columns of a record
func (t *tx) UpdateOne(ctx context.Context, id string, patch domain.Patch) error {
	if t.done {
		return errTxDone
	}
	if t.faults.FailUpdateAfter != 0 && t.updates >= max(t.faults.FailUpdateAfter, 0) {
		return fmt.Errorf("update %s: %w", id, ErrFault)
	}
	r, ok := t.rows[id]
	if !ok {
		return fmt.Errorf("update %s: no such record", id)
	}
	name := t.tree.field.Name
	current, positioned := r.bounds[name]
	if !positioned && (patch.Left == nil || patch.Right == nil || patch.Depth == nil) {
		return fmt.Errorf("update %s: partial patch on unpositioned record", id)
	}
	r.bounds[name] = patch.Apply(current)
	t.updates++
	return nil
}

// InsertRecord adds a record and returns its generated id
func (t *tx) InsertRecord(ctx context.Context, label string, bounds *domain.Bounds) (string, error) {
	if t.done {
		return "", errTxDone
	}
	db := t.tree.db
	db.mu.Lock()
	db.seq++
	seq := db.seq
	db.mu.Unlock()

	id := uuid.NewString()
	r := &row{id: id, label: label, seq: seq, bounds: make(map[string]domain.Bounds)}
	if bounds != nil {
		r.bounds[t.tree.field.Name] = *bounds
	}
	t.rows[id] = r
	return id, nil
}

// DeleteRecord removes a record
func (t *tx) DeleteRecord(ctx context.Context, id string) error {
	if t.done {
		return errTxDone
	}
	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("delete %s: no such record", id)
	}
	delete(t.rows, id)
	return nil
}

// RenameRecord changes a record's label
func (t *tx) RenameRecord(ctx context.Context, id, label string) error {
	if t.done {
		return errTxDone
	}
	r, ok := t.rows[id]
	if !ok {
		return fmt.Errorf("rename %s: no such record", id)
	}
	r.label = label
	return nil
}

// Commit publishes the transaction's rows
func (t *tx) Commit() error {
	if t.done {
		return errTxDone
	}
	if t.faults.FailCommit {
		return t.finish(fmt.Errorf("commit: %w", ErrFault))
	}
	db := t.tree.db
	db.mu.Lock()
	db.lists[t.tree.list] = t.rows
	db.mu.Unlock()
	return t.finish(nil)
}

// Rollback discards the transaction's rows
func (t *tx) Rollback() error {
	if t.done {
		return errTxDone
	}
	t.finish(nil)
	if t.faults.FailRollback {
		return fmt.Errorf("rollback: %w", ErrFault)
	}
	return nil
}

func (t *tx) finish(err error) error {
	if err == nil {
		t.done = true
		t.tree.db.writer.Release(1)
	}
	return err
}

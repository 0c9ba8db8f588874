package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"nestedset/internal/domain"
	"nestedset/internal/ports"
)

// tx implements ports.RecordTx
type tx struct {
	reader
	tx *sql.Tx
}

// Ensure tx implements RecordTx
var _ ports.RecordTx = (*tx)(nil)

// UpdateOne patches the hierarchy columns of a record. A partial patch only
// applies to a record that is already positioned.
func (t *tx) UpdateOne(ctx context.Context, id string, patch domain.Patch) error {
	var sets []string
	var args []any
	set := func(col string, v *int) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
		}
	}
	set(t.field.LeftColumn, patch.Left)
	set(t.field.RightColumn, patch.Right)
	set(t.field.DepthColumn, patch.Depth)
	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = ?`, t.list, strings.Join(sets, ", "))
	args = append(args, id)
	if len(sets) < 3 {
		query += " AND " + t.field.LeftColumn + " IS NOT NULL"
	}
	return t.execOne(ctx, "update", id, query, args...)
}

// InsertRecord adds a record and returns its generated id
func (t *tx) InsertRecord(ctx context.Context, label string, bounds *domain.Bounds) (string, error) {
	id := uuid.NewString()
	f := t.field
	var left, right, depth sql.NullInt64
	if bounds != nil {
		left = sql.NullInt64{Int64: int64(bounds.Left), Valid: true}
		right = sql.NullInt64{Int64: int64(bounds.Right), Valid: true}
		depth = sql.NullInt64{Int64: int64(bounds.Depth), Valid: true}
	}
	_, err := t.tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, label, %s, %s, %s)
		VALUES (?, ?, ?, ?, ?)
	`, t.list, f.LeftColumn, f.RightColumn, f.DepthColumn), id, label, left, right, depth)
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", label, err)
	}
	return id, nil
}

// DeleteRecord removes a record
func (t *tx) DeleteRecord(ctx context.Context, id string) error {
	return t.execOne(ctx, "delete", id, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, t.list), id)
}

// RenameRecord changes a record's label
func (t *tx) RenameRecord(ctx context.Context, id, label string) error {
	return t.execOne(ctx, "rename", id, fmt.Sprintf(`UPDATE %s SET label = ? WHERE id = ?`, t.list), label, id)
}

func (t *tx) execOne(ctx context.Context, op, id, query string, args ...any) error {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	if n != 1 {
		return fmt.Errorf("%s %s: no such record", op, id)
	}
	return nil
}

// Commit commits the transaction
func (t *tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction. A transaction the driver already closed,
// as after a failed commit, has nothing left to undo.
func (t *tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

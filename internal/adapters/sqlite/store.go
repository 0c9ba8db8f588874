package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"nestedset/internal/domain"
	"nestedset/internal/ports"
)

// querier is the part of *sql.DB and *sql.Tx the readers need.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Tree implements ports.TreeStore over one list table and one field.
type Tree struct {
	reader
	db *Database
}

// Ensure Tree implements TreeStore
var _ ports.TreeStore = (*Tree)(nil)

// Tree returns a handle on list scoped to field, creating the table, the
// field's columns and their indexes when missing.
func (d *Database) Tree(ctx context.Context, list string, field domain.Field) (*Tree, error) {
	if !domain.IsIdentifier(list) {
		return nil, fmt.Errorf("invalid list name %q", list)
	}
	if err := field.Validate(); err != nil {
		return nil, err
	}
	if err := d.ensureField(ctx, list, field); err != nil {
		return nil, fmt.Errorf("prepare %s.%s: %w", list, field.Name, err)
	}
	return &Tree{reader: reader{q: d.db, list: list, field: field}, db: d}, nil
}

func (d *Database) ensureField(ctx context.Context, list string, field domain.Field) error {
	_, err := d.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL DEFAULT ''
		)
	`, list))
	if err != nil {
		return err
	}

	existing, err := d.columns(ctx, list)
	if err != nil {
		return err
	}
	for _, col := range field.Columns() {
		if !existing[col] {
			// Nullable: a record without bounds has never been positioned.
			if _, err := d.db.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s INTEGER`, list, col)); err != nil {
				return err
			}
		}
		// Not unique: per-row shift updates pass through duplicate values.
		if _, err := d.db.ExecContext(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s)`, list, col, list, col)); err != nil {
			return err
		}
	}
	return nil
}

func (d *Database) columns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := d.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, typ        string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// List returns the list name
func (t *Tree) List() string { return t.list }

// Field returns the hierarchy field
func (t *Tree) Field() domain.Field { return t.field }

// BeginTx starts a new write transaction. The DSN makes it BEGIN IMMEDIATE.
func (t *Tree) BeginTx(ctx context.Context) (ports.RecordTx, error) {
	sqlTx, err := t.db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &tx{reader: reader{q: sqlTx, list: t.list, field: t.field}, tx: sqlTx}, nil
}

// reader implements ports.TreeReader over a querier.
type reader struct {
	q     querier
	list  string
	field domain.Field
}

func (r reader) selectFrom() string {
	f := r.field
	return fmt.Sprintf(`SELECT id, label, %s, %s, %s FROM %s`, f.LeftColumn, f.RightColumn, f.DepthColumn, r.list)
}

// where renders filter as a WHERE clause. A NULL column fails every range
// condition, so unpositioned records only match the zero filter.
func (r reader) where(filter domain.Filter) (string, []any) {
	var conds []string
	var args []any
	add := func(col string, rg domain.Range) {
		if rg.Min != nil {
			conds = append(conds, col+" >= ?")
			args = append(args, *rg.Min)
		}
		if rg.Max != nil {
			conds = append(conds, col+" <= ?")
			args = append(args, *rg.Max)
		}
	}
	add(r.field.LeftColumn, filter.Left)
	add(r.field.RightColumn, filter.Right)
	add(r.field.DepthColumn, filter.Depth)
	if filter.Positioned {
		conds = append(conds, r.field.LeftColumn+" IS NOT NULL")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (domain.Record, error) {
	var rec domain.Record
	var left, right, depth sql.NullInt64
	if err := s.Scan(&rec.ID, &rec.Label, &left, &right, &depth); err != nil {
		return rec, err
	}
	switch {
	case left.Valid && right.Valid && depth.Valid:
		rec.Bounds = &domain.Bounds{Left: int(left.Int64), Right: int(right.Int64), Depth: int(depth.Int64)}
	case left.Valid || right.Valid || depth.Valid:
		return rec, fmt.Errorf("record %s has partial bounds", rec.ID)
	}
	return rec, nil
}

// FindOne retrieves a record by id
func (r reader) FindOne(ctx context.Context, id string) (*domain.Record, error) {
	rec, err := scanRecord(r.q.QueryRowContext(ctx, r.selectFrom()+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindMany retrieves the records matching filter, positioned ones first by
// left and the rest in insertion order.
func (r reader) FindMany(ctx context.Context, filter domain.Filter, order domain.Order) ([]domain.Record, error) {
	if filter.Empty() {
		return nil, nil
	}
	where, args := r.where(filter)
	dir := "ASC"
	if order.Desc {
		dir = "DESC"
	}
	query := fmt.Sprintf(`%s%s ORDER BY %s IS NULL, %s %s, rowid`,
		r.selectFrom(), where, r.field.LeftColumn, r.field.LeftColumn, dir)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Count counts the records matching filter
func (r reader) Count(ctx context.Context, filter domain.Filter) (int, error) {
	if filter.Empty() {
		return 0, nil
	}
	where, args := r.where(filter)
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+r.list+where, args...).Scan(&n)
	return n, err
}

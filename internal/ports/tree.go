package ports

import (
	"context"

	"nestedset/internal/domain"
)

// TreeReader reads the records of one list through one hierarchy field.
type TreeReader interface {
	// FindOne returns the record with id, or nil when it does not exist.
	FindOne(ctx context.Context, id string) (*domain.Record, error)

	// FindMany returns the records matching filter sorted by left. Records
	// without bounds come last.
	FindMany(ctx context.Context, filter domain.Filter, order domain.Order) ([]domain.Record, error)

	// Count returns the number of records matching filter.
	Count(ctx context.Context, filter domain.Filter) (int, error)
}

// TreeTx is the unit of work a mutator runs in. Updates become visible to
// the tx's own reads immediately and to everyone else on Commit.
type TreeTx interface {
	TreeReader

	// UpdateOne applies patch to the hierarchy columns of id.
	UpdateOne(ctx context.Context, id string, patch domain.Patch) error

	// Transaction control
	Commit() error
	Rollback() error
}

// RecordTx extends TreeTx with the record lifecycle the surrounding
// application owns. The engine never calls these.
type RecordTx interface {
	TreeTx

	InsertRecord(ctx context.Context, label string, bounds *domain.Bounds) (string, error)
	DeleteRecord(ctx context.Context, id string) error
	RenameRecord(ctx context.Context, id, label string) error
}

// TreeStore is a handle on one list and one of its hierarchy fields.
type TreeStore interface {
	TreeReader

	// List names the entity type the handle is scoped to.
	List() string
	// Field is the hierarchy field the handle reads and writes.
	Field() domain.Field

	// BeginTx starts a transaction serialized against other writers of the
	// same list.
	BeginTx(ctx context.Context) (RecordTx, error)
}

// Locker is an advisory lock held for the duration of one mutator.
type Locker interface {
	Lock(ctx context.Context) error
	Unlock()
}

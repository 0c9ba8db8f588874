package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"nestedset/internal/adapters/memory"
	"nestedset/internal/domain"
	"nestedset/internal/engine"
)

var (
	memoryNoFaults              = memory.Faults{}
	memoryFailFirstUpdate       = memory.Faults{FailUpdateAfter: -1}
	memoryFailSecondUpdate      = memory.Faults{FailUpdateAfter: 1}
	memoryFailCommitAndRollback = memory.Faults{FailCommit: true, FailRollback: true}
)

type harness struct {
	t    *testing.T
	ctx  context.Context
	db   *memory.Database
	tree *engine.Tree
	ids  map[string]string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := memory.NewDatabase()
	store, err := db.Tree("categories", domain.NewField("tree"))
	require.NoError(t, err)
	return &harness{
		t:    t,
		ctx:  context.Background(),
		db:   db,
		tree: engine.New(store),
		ids:  make(map[string]string),
	}
}

func (h *harness) id(label string) string {
	h.t.Helper()
	id, ok := h.ids[label]
	require.True(h.t, ok, "unknown label %s", label)
	return id
}

// create positions and inserts a record the way the application does.
func (h *harness) create(label string, p domain.Placement) (domain.Bounds, error) {
	var b domain.Bounds
	err := h.tree.Update(h.ctx, "create", func(ctx context.Context, u *engine.Unit) error {
		var err error
		if b, err = u.ResolveCreate(ctx, p); err != nil {
			return err
		}
		id, err := u.Records().InsertRecord(ctx, label, &b)
		if err != nil {
			return err
		}
		h.ids[label] = id
		return nil
	})
	return b, err
}

func (h *harness) mustCreate(label string, p domain.Placement) domain.Bounds {
	h.t.Helper()
	b, err := h.create(label, p)
	require.NoError(h.t, err)
	h.requireValid()
	return b
}

func (h *harness) move(label string, p domain.Placement) (domain.Bounds, error) {
	var b domain.Bounds
	err := h.tree.Update(h.ctx, "move", func(ctx context.Context, u *engine.Unit) error {
		var err error
		if b, err = u.Move(ctx, h.id(label), p); err != nil {
			return err
		}
		return u.Records().UpdateOne(ctx, h.id(label), domain.Set(b))
	})
	return b, err
}

func (h *harness) mustMove(label string, p domain.Placement) domain.Bounds {
	h.t.Helper()
	b, err := h.move(label, p)
	require.NoError(h.t, err)
	h.requireValid()
	return b
}

func (h *harness) remove(label string) error {
	err := h.tree.Update(h.ctx, "delete", func(ctx context.Context, u *engine.Unit) error {
		if err := u.ResolveDelete(ctx, h.id(label)); err != nil {
			return err
		}
		return u.Records().DeleteRecord(ctx, h.id(label))
	})
	if err == nil {
		delete(h.ids, label)
	}
	return err
}

// snapshot maps labels to bounds for every positioned record.
func (h *harness) snapshot() map[string]domain.Bounds {
	h.t.Helper()
	recs, err := h.tree.Queries().Find(h.ctx, domain.Filter{Positioned: true}, domain.OrderAsc)
	require.NoError(h.t, err)
	out := make(map[string]domain.Bounds, len(recs))
	for _, r := range recs {
		out[r.Label] = *r.Bounds
	}
	return out
}

func (h *harness) node(label string) domain.Node {
	h.t.Helper()
	n, err := h.tree.Queries().Get(h.ctx, h.id(label))
	require.NoError(h.t, err)
	return n
}

func (h *harness) requireValid() {
	h.t.Helper()
	require.NoError(h.t, h.tree.Queries().Verify(h.ctx))
}

// buildSample creates
//
//	R
//	├── A
//	│   ├── A1
//	│   └── A2
//	└── B
func (h *harness) buildSample() {
	h.t.Helper()
	h.mustCreate("R", domain.Placement{})
	h.mustCreate("A", domain.ChildOf(h.id("R")))
	h.mustCreate("B", domain.ChildOf(h.id("R")))
	h.mustCreate("A1", domain.ChildOf(h.id("A")))
	h.mustCreate("A2", domain.ChildOf(h.id("A")))
}

func b(l, r, d int) domain.Bounds {
	return domain.Bounds{Left: l, Right: r, Depth: d}
}

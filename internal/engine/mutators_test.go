package engine_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nestedset/internal/application"
	"nestedset/internal/domain"
	"nestedset/internal/engine"
)

func TestInsert_RootThenChildren(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, b(1, 2, 0), h.mustCreate("R", domain.Placement{}))

	assert.Equal(t, b(2, 3, 1), h.mustCreate("C1", domain.ChildOf(h.id("R"))))
	assert.Equal(t, b(1, 4, 0), h.snapshot()["R"])

	assert.Equal(t, b(4, 5, 1), h.mustCreate("C2", domain.ChildOf(h.id("R"))))
	snap := h.snapshot()
	assert.Equal(t, b(1, 6, 0), snap["R"])
	assert.Equal(t, b(2, 3, 1), snap["C1"])
}

func TestInsert_NoPlacementAppendsToRoot(t *testing.T) {
	h := newHarness(t)
	h.mustCreate("R", domain.Placement{})

	assert.Equal(t, b(2, 3, 1), h.mustCreate("X", domain.Placement{}))
	assert.Equal(t, b(4, 5, 1), h.mustCreate("Y", domain.Placement{}))
	assert.Equal(t, b(1, 6, 0), h.snapshot()["R"])
}

func TestInsert_Nested(t *testing.T) {
	h := newHarness(t)
	h.buildSample()

	assert.Equal(t, map[string]domain.Bounds{
		"R":  b(1, 10, 0),
		"A":  b(2, 7, 1),
		"A1": b(3, 4, 2),
		"A2": b(5, 6, 2),
		"B":  b(8, 9, 1),
	}, h.snapshot())
}

func TestInsert_Siblings(t *testing.T) {
	h := newHarness(t)
	h.buildSample()

	assert.Equal(t, b(5, 6, 2), h.mustCreate("A1b", domain.After(h.id("A1"))))
	assert.Equal(t, b(3, 4, 2), h.mustCreate("A0", domain.Before(h.id("A1"))))

	assert.Equal(t, map[string]domain.Bounds{
		"R":   b(1, 14, 0),
		"A":   b(2, 11, 1),
		"A0":  b(3, 4, 2),
		"A1":  b(5, 6, 2),
		"A1b": b(7, 8, 2),
		"A2":  b(9, 10, 2),
		"B":   b(12, 13, 1),
	}, h.snapshot())
}

func TestInsert_SiblingOfRootRejected(t *testing.T) {
	h := newHarness(t)
	h.mustCreate("R", domain.Placement{})
	before := h.snapshot()

	_, err := h.create("X", domain.After(h.id("R")))
	assert.ErrorIs(t, err, application.ErrInvalidPlacement)
	_, err = h.create("Y", domain.Before(h.id("R")))
	assert.ErrorIs(t, err, application.ErrInvalidPlacement)

	assert.Equal(t, before, h.snapshot())
}

func TestInsert_UnknownAnchor(t *testing.T) {
	h := newHarness(t)
	h.mustCreate("R", domain.Placement{})

	_, err := h.create("X", domain.ChildOf("missing"))
	var nf *application.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ID)
	assert.ErrorIs(t, err, application.ErrNotFound)
}

func TestInsert_SecondRootRejected(t *testing.T) {
	h := newHarness(t)
	h.mustCreate("R", domain.Placement{})

	err := h.tree.Update(h.ctx, "root", func(ctx context.Context, u *engine.Unit) error {
		_, err := u.InsertRoot(ctx)
		return err
	})
	assert.ErrorIs(t, err, application.ErrInvalidPlacement)
}

func TestMove(t *testing.T) {
	tests := []struct {
		name  string
		label string
		to    func(h *harness) domain.Placement
		moved domain.Bounds
		want  map[string]domain.Bounds
	}{
		{
			name:  "subtree rightwards under sibling",
			label: "A",
			to:    func(h *harness) domain.Placement { return domain.ChildOf(h.id("B")) },
			moved: b(3, 8, 2),
			want: map[string]domain.Bounds{
				"R": b(1, 10, 0), "B": b(2, 9, 1), "A": b(3, 8, 2), "A1": b(4, 5, 3), "A2": b(6, 7, 3),
			},
		},
		{
			name:  "leaf leftwards before its uncle",
			label: "B",
			to:    func(h *harness) domain.Placement { return domain.Before(h.id("A")) },
			moved: b(2, 3, 1),
			want: map[string]domain.Bounds{
				"R": b(1, 10, 0), "B": b(2, 3, 1), "A": b(4, 9, 1), "A1": b(5, 6, 2), "A2": b(7, 8, 2),
			},
		},
		{
			name:  "leaf up a level after its uncle",
			label: "A2",
			to:    func(h *harness) domain.Placement { return domain.After(h.id("B")) },
			moved: b(8, 9, 1),
			want: map[string]domain.Bounds{
				"R": b(1, 10, 0), "A": b(2, 5, 1), "A1": b(3, 4, 2), "B": b(6, 7, 1), "A2": b(8, 9, 1),
			},
		},
		{
			name:  "leaf down a level into leaf",
			label: "B",
			to:    func(h *harness) domain.Placement { return domain.ChildOf(h.id("A1")) },
			moved: b(4, 5, 3),
			want: map[string]domain.Bounds{
				"R": b(1, 10, 0), "A": b(2, 9, 1), "A1": b(3, 6, 2), "B": b(4, 5, 3), "A2": b(7, 8, 2),
			},
		},
		{
			name:  "reorder siblings",
			label: "A2",
			to:    func(h *harness) domain.Placement { return domain.Before(h.id("A1")) },
			moved: b(3, 4, 2),
			want: map[string]domain.Bounds{
				"R": b(1, 10, 0), "A": b(2, 7, 1), "A2": b(3, 4, 2), "A1": b(5, 6, 2), "B": b(8, 9, 1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.buildSample()

			got := h.mustMove(tt.label, tt.to(h))
			assert.Equal(t, tt.moved, got)
			assert.Equal(t, tt.want, h.snapshot())
		})
	}
}

func TestMove_SamePositionIsNoop(t *testing.T) {
	tests := []struct {
		name  string
		label string
		to    func(h *harness) domain.Placement
	}{
		{"last child of current parent", "A2", func(h *harness) domain.Placement { return domain.ChildOf(h.id("A")) }},
		{"before current next sibling", "A1", func(h *harness) domain.Placement { return domain.Before(h.id("A2")) }},
		{"after current previous sibling", "B", func(h *harness) domain.Placement { return domain.After(h.id("A")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.buildSample()
			before := h.snapshot()

			got := h.mustMove(tt.label, tt.to(h))
			assert.Equal(t, before[tt.label], got)
			assert.Equal(t, before, h.snapshot())
		})
	}
}

func TestMove_CycleRejected(t *testing.T) {
	tests := []struct {
		name   string
		label  string
		anchor string
		place  func(string) domain.Placement
	}{
		{"child of itself", "A", "A", domain.ChildOf},
		{"child of its child", "A", "A1", domain.ChildOf},
		{"child of its grandchild", "R", "A1", domain.ChildOf},
		{"before itself", "A", "A", domain.Before},
		{"after itself", "B", "B", domain.After},
		{"before its descendant", "A", "A2", domain.Before},
		{"after its descendant", "R", "B", domain.After},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.buildSample()
			before := h.snapshot()
			// Any write would trip this fault; a rejected move must not get that far.
			h.db.SetFaults(memoryFailFirstUpdate)

			_, err := h.move(tt.label, tt.place(h.id(tt.anchor)))
			var cyc *application.CyclicMoveError
			require.ErrorAs(t, err, &cyc)
			assert.ErrorIs(t, err, application.ErrCyclicMove)
			assert.False(t, h.tree.Halted())

			h.db.SetFaults(memoryNoFaults)
			assert.Equal(t, before, h.snapshot())
		})
	}
}

func TestMove_SiblingOfRootRejected(t *testing.T) {
	h := newHarness(t)
	h.buildSample()

	_, err := h.move("A1", domain.After(h.id("R")))
	assert.ErrorIs(t, err, application.ErrInvalidPlacement)
}

func TestMove_NoDestination(t *testing.T) {
	h := newHarness(t)
	h.buildSample()

	_, err := h.move("A1", domain.Placement{})
	assert.ErrorIs(t, err, application.ErrInvalidPlacement)
}

func TestDelete_Leaf(t *testing.T) {
	h := newHarness(t)
	h.buildSample()

	require.NoError(t, h.remove("A1"))
	h.requireValid()
	assert.Equal(t, map[string]domain.Bounds{
		"R": b(1, 8, 0), "A": b(2, 5, 1), "A2": b(3, 4, 2), "B": b(6, 7, 1),
	}, h.snapshot())
}

func TestDelete_PromotesChildren(t *testing.T) {
	h := newHarness(t)
	h.buildSample()
	h.mustCreate("A1x", domain.ChildOf(h.id("A1")))
	before := h.snapshot()

	require.NoError(t, h.remove("A"))
	h.requireValid()
	after := h.snapshot()

	// Children keep their widths and move up one level into A's slot.
	for _, label := range []string{"A1", "A2"} {
		assert.Equal(t, before[label].Width(), after[label].Width(), label)
		assert.Equal(t, 1, after[label].Depth, label)
	}
	assert.Equal(t, b(2, 5, 1), after["A1"])
	assert.Equal(t, b(3, 4, 2), after["A1x"])
	assert.Equal(t, b(6, 7, 1), after["A2"])

	// Everything after A shifts down by the two units A occupied.
	assert.Equal(t, before["B"].Left-2, after["B"].Left)
	assert.Equal(t, before["B"].Right-2, after["B"].Right)
	assert.Equal(t, before["R"].Right-2, after["R"].Right)

	parent, err := h.tree.Queries().GetParentID(h.ctx, h.node("A2"))
	require.NoError(t, err)
	assert.Equal(t, h.id("R"), parent)
}

func TestDelete_RoundTripRestoresTree(t *testing.T) {
	anchors := []string{"R", "A", "A1", "A2", "B"}
	for _, anchor := range anchors {
		t.Run(anchor, func(t *testing.T) {
			h := newHarness(t)
			h.buildSample()
			before := h.snapshot()

			h.mustCreate("tmp", domain.ChildOf(h.id(anchor)))
			require.NoError(t, h.remove("tmp"))

			assert.Equal(t, before, h.snapshot())
		})
	}
}

func TestDelete_Root(t *testing.T) {
	h := newHarness(t)
	h.buildSample()

	err := h.remove("R")
	assert.ErrorIs(t, err, application.ErrRootHasChildren)

	err = h.tree.Update(h.ctx, "validate", func(ctx context.Context, u *engine.Unit) error {
		return u.ValidateDelete(ctx, h.id("R"))
	})
	assert.ErrorIs(t, err, application.ErrRootHasChildren)

	single := newHarness(t)
	single.mustCreate("R", domain.Placement{})
	require.NoError(t, single.remove("R"))
	assert.Empty(t, single.snapshot())

	// An emptied tree bootstraps again.
	assert.Equal(t, b(1, 2, 0), single.mustCreate("R2", domain.Placement{}))
}

func TestResolveUpdate(t *testing.T) {
	h := newHarness(t)
	h.buildSample()

	var unpositioned string
	require.NoError(t, h.tree.Update(h.ctx, "seed", func(ctx context.Context, u *engine.Unit) error {
		var err error
		unpositioned, err = u.Records().InsertRecord(ctx, "loose", nil)
		return err
	}))

	prior := h.node("A1").Bounds
	require.NoError(t, h.tree.Update(h.ctx, "update", func(ctx context.Context, u *engine.Unit) error {
		got, err := u.ResolveUpdate(ctx, h.id("A1"), &prior, domain.Placement{})
		require.NoError(t, err)
		assert.Equal(t, prior, got)

		got, err = u.ResolveUpdate(ctx, unpositioned, nil, domain.ChildOf(h.id("B")))
		require.NoError(t, err)
		assert.Equal(t, b(9, 10, 2), got)
		return u.Records().UpdateOne(ctx, unpositioned, domain.Set(got))
	}))
	h.requireValid()
}

func TestUpdate_FailedWriteRollsBack(t *testing.T) {
	h := newHarness(t)
	h.buildSample()
	before := h.snapshot()

	h.db.SetFaults(memoryFailSecondUpdate)
	_, err := h.move("A", domain.ChildOf(h.id("B")))
	require.Error(t, err)

	var txErr *application.TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, "move", txErr.Op)
	assert.ErrorIs(t, err, application.ErrTransaction)
	assert.False(t, h.tree.Halted())

	h.db.SetFaults(memoryNoFaults)
	assert.Equal(t, before, h.snapshot())
	h.requireValid()
}

func TestUpdate_FailedRollbackHaltsTree(t *testing.T) {
	h := newHarness(t)
	h.buildSample()

	h.db.SetFaults(memoryFailCommitAndRollback)
	_, err := h.create("X", domain.ChildOf(h.id("B")))
	assert.ErrorIs(t, err, application.ErrTransaction)
	assert.True(t, h.tree.Halted())

	h.db.SetFaults(memoryNoFaults)
	_, err = h.create("Y", domain.ChildOf(h.id("B")))
	assert.ErrorIs(t, err, application.ErrTreeHalted)

	h.requireValid()
	h.tree.Resume()
	assert.False(t, h.tree.Halted())
	h.mustCreate("Z", domain.ChildOf(h.id("B")))
}

func TestUpdate_CancelledContext(t *testing.T) {
	h := newHarness(t)
	h.buildSample()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Hold the lock so the second acquire must wait on ctx.
	lock := engine.NewLock()
	require.NoError(t, lock.Lock(context.Background()))
	defer lock.Unlock()
	store := h.tree.Store()
	tree := engine.New(store, engine.WithLocker(lock))

	err := tree.Update(ctx, "create", func(ctx context.Context, u *engine.Unit) error {
		t.Fatal("unit must not run without the lock")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

// TestRandomOperations applies a long random sequence of inserts, moves and
// deletes and checks every invariant after each step.
func TestRandomOperations(t *testing.T) {
	h := newHarness(t)
	rng := rand.New(rand.NewPCG(7, 11))
	h.mustCreate("n0", domain.Placement{})
	next := 1

	labels := func() []string {
		var out []string
		for l := range h.snapshot() {
			out = append(out, l)
		}
		return out
	}
	pick := func(ls []string) string {
		// Map iteration order is random; sort for a reproducible pick.
		slices.Sort(ls)
		return ls[rng.IntN(len(ls))]
	}

	for step := 0; step < 300; step++ {
		ls := labels()
		anchor := pick(ls)
		places := []func(string) domain.Placement{domain.ChildOf, domain.Before, domain.After}
		place := places[rng.IntN(len(places))](h.id(anchor))

		var err error
		switch op := rng.IntN(10); {
		case op < 5 || len(ls) < 3:
			label := fmt.Sprintf("n%d", next)
			next++
			_, err = h.create(label, place)
		case op < 8:
			_, err = h.move(pick(ls), place)
		default:
			err = h.remove(pick(ls))
		}

		switch {
		case err == nil,
			errors.Is(err, application.ErrInvalidPlacement),
			errors.Is(err, application.ErrCyclicMove),
			errors.Is(err, application.ErrRootHasChildren):
		default:
			t.Fatalf("step %d: unexpected error: %v", step, err)
		}
		require.NoError(t, h.tree.Queries().Verify(h.ctx), "step %d", step)
	}
}

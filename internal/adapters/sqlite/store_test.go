package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nestedset/internal/domain"
	"nestedset/internal/engine"
)

func openTest(t testing.TB) *Database {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), DefaultDriver)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "x.db"), "postgres")
	assert.ErrorContains(t, err, "not available")
}

func TestDrivers(t *testing.T) {
	// The pure Go driver is registered on every build and is the default.
	assert.Equal(t, "sqlite", DefaultDriver)
	assert.Contains(t, Drivers(), DefaultDriver)
}

func TestTree_CreatesSchema(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	_, err := db.Tree(ctx, "categories", domain.NewField("tree"))
	require.NoError(t, err)
	// A second field on the same list adds its own columns.
	_, err = db.Tree(ctx, "categories", domain.NewField("menu"))
	require.NoError(t, err)
	// Reopening an existing field is a no-op.
	_, err = db.Tree(ctx, "categories", domain.NewField("tree"))
	require.NoError(t, err)

	cols, err := db.columns(ctx, "categories")
	require.NoError(t, err)
	for _, c := range []string{"id", "label", "tree_left", "tree_rght", "tree_depth", "menu_left", "menu_rght", "menu_depth"} {
		assert.True(t, cols[c], "missing column %s", c)
	}

	_, err = db.Tree(ctx, "bad name", domain.NewField("tree"))
	assert.Error(t, err)
}

func TestTx_Lifecycle(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()
	tree, err := db.Tree(ctx, "categories", domain.NewField("tree"))
	require.NoError(t, err)

	tx, err := tree.BeginTx(ctx)
	require.NoError(t, err)
	root, err := tx.InsertRecord(ctx, "root", &domain.Bounds{Left: 1, Right: 4})
	require.NoError(t, err)
	child, err := tx.InsertRecord(ctx, "child", &domain.Bounds{Left: 2, Right: 3, Depth: 1})
	require.NoError(t, err)
	loose, err := tx.InsertRecord(ctx, "loose", nil)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	rec, err := tree.FindOne(ctx, child)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, domain.Bounds{Left: 2, Right: 3, Depth: 1}, *rec.Bounds)

	rec, err = tree.FindOne(ctx, loose)
	require.NoError(t, err)
	assert.Nil(t, rec.Bounds)

	rec, err = tree.FindOne(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, rec)

	all, err := tree.FindMany(ctx, domain.Filter{}, domain.OrderDesc)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{child, root, loose}, []string{all[0].ID, all[1].ID, all[2].ID})

	n, err := tree.Count(ctx, domain.Filter{Depth: domain.Eq(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Rolled back writes vanish.
	tx, err = tree.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.UpdateOne(ctx, root, domain.Patch{Right: intp(6)}))
	require.NoError(t, tx.RenameRecord(ctx, root, "renamed"))
	require.NoError(t, tx.Rollback())

	rec, err = tree.FindOne(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, "root", rec.Label)
	assert.Equal(t, 4, rec.Bounds.Right)

	tx, err = tree.BeginTx(ctx)
	require.NoError(t, err)
	assert.Error(t, tx.UpdateOne(ctx, loose, domain.Patch{Left: intp(5)}))
	assert.Error(t, tx.DeleteRecord(ctx, "missing"))
	require.NoError(t, tx.UpdateOne(ctx, loose, domain.Set(domain.Bounds{Left: 4, Right: 5, Depth: 1})))
	require.NoError(t, tx.DeleteRecord(ctx, child))
	require.NoError(t, tx.Commit())
	// Rollback after commit is harmless.
	require.NoError(t, tx.Rollback())

	n, err = tree.Count(ctx, domain.Filter{Positioned: true})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

// TestEngine runs the engine against a real database file.
func TestEngine(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()
	store, err := db.Tree(ctx, "categories", domain.NewField("tree"))
	require.NoError(t, err)
	tree := engine.New(store)

	ids := map[string]string{}
	create := func(label string, p domain.Placement) {
		t.Helper()
		require.NoError(t, tree.Update(ctx, "create", func(ctx context.Context, u *engine.Unit) error {
			b, err := u.ResolveCreate(ctx, p)
			if err != nil {
				return err
			}
			ids[label], err = u.Records().InsertRecord(ctx, label, &b)
			return err
		}))
		require.NoError(t, tree.Queries().Verify(ctx))
	}

	create("R", domain.Placement{})
	create("A", domain.ChildOf(ids["R"]))
	create("B", domain.ChildOf(ids["R"]))
	create("A1", domain.ChildOf(ids["A"]))
	create("A2", domain.ChildOf(ids["A"]))

	require.NoError(t, tree.Update(ctx, "move", func(ctx context.Context, u *engine.Unit) error {
		b, err := u.Move(ctx, ids["A"], domain.ChildOf(ids["B"]))
		if err != nil {
			return err
		}
		return u.Records().UpdateOne(ctx, ids["A"], domain.Set(b))
	}))
	require.NoError(t, tree.Queries().Verify(ctx))

	a, err := tree.Queries().Get(ctx, ids["A"])
	require.NoError(t, err)
	assert.Equal(t, domain.Bounds{Left: 3, Right: 8, Depth: 2}, a.Bounds)

	require.NoError(t, tree.Update(ctx, "delete", func(ctx context.Context, u *engine.Unit) error {
		if err := u.ResolveDelete(ctx, ids["A"]); err != nil {
			return err
		}
		return u.Records().DeleteRecord(ctx, ids["A"])
	}))
	require.NoError(t, tree.Queries().Verify(ctx))

	root, err := tree.Queries().GetTree(ctx)
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	b := root.Children[0]
	assert.Equal(t, "B", b.Label)
	require.Len(t, b.Children, 2)
	assert.Equal(t, "A1", b.Children[0].Label)
	assert.Equal(t, "A2", b.Children[1].Label)
}

func BenchmarkInsertLastChild(b *testing.B) {
	db := openTest(b)
	ctx := context.Background()
	store, err := db.Tree(ctx, "bench", domain.NewField("tree"))
	require.NoError(b, err)
	tree := engine.New(store)

	var root string
	require.NoError(b, tree.Update(ctx, "create", func(ctx context.Context, u *engine.Unit) error {
		bounds, err := u.ResolveCreate(ctx, domain.Placement{})
		if err != nil {
			return err
		}
		root, err = u.Records().InsertRecord(ctx, "root", &bounds)
		return err
	}))

	for b.Loop() {
		err := tree.Update(ctx, "create", func(ctx context.Context, u *engine.Unit) error {
			bounds, err := u.InsertLastChildOf(ctx, root)
			if err != nil {
				return err
			}
			_, err = u.Records().InsertRecord(ctx, "child", &bounds)
			return err
		})
		if err != nil {
			b.Fatalf("insert failed: %v", err)
		}
	}
}

func intp(v int) *int { return &v }

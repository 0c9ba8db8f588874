package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id string, l, r, d int) Record {
	return Record{ID: id, Label: "label " + id, Bounds: &Bounds{Left: l, Right: r, Depth: d}}
}

func ids(nodes []*TreeNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestBuildTree(t *testing.T) {
	t.Run("assembles nested records", func(t *testing.T) {
		root, err := BuildTree([]Record{
			record("r", 1, 10, 0),
			record("a", 2, 7, 1),
			record("a1", 3, 4, 2),
			record("a2", 5, 6, 2),
			record("b", 8, 9, 1),
		})
		require.NoError(t, err)
		require.NotNil(t, root)
		assert.Equal(t, "r", root.ID)
		assert.Equal(t, []string{"a", "b"}, ids(root.Children))

		a := root.Children[0]
		assert.Equal(t, []string{"a1", "a2"}, ids(a.Children))
		assert.Same(t, a, a.Children[1].Parent)
		assert.Same(t, root, root.Children[1].Parent)
	})

	t.Run("returns nil for no records", func(t *testing.T) {
		root, err := BuildTree(nil)
		require.NoError(t, err)
		assert.Nil(t, root)
	})

	t.Run("skips unpositioned records", func(t *testing.T) {
		root, err := BuildTree([]Record{record("r", 1, 2, 0), {ID: "loose", Label: "never positioned"}})
		require.NoError(t, err)
		assert.Nil(t, root.Find("loose"))
	})

	t.Run("rejects a second root", func(t *testing.T) {
		_, err := BuildTree([]Record{record("r", 1, 2, 0), record("s", 3, 4, 0)})
		assert.Error(t, err)
	})

	t.Run("rejects a node outside the root", func(t *testing.T) {
		_, err := BuildTree([]Record{record("r", 1, 4, 0), record("x", 5, 6, 1)})
		assert.Error(t, err)
	})

	t.Run("rejects partial overlap", func(t *testing.T) {
		_, err := BuildTree([]Record{
			record("r", 1, 10, 0),
			record("a", 2, 5, 1),
			record("b", 4, 7, 1),
		})
		assert.Error(t, err)
	})
}

func TestTreeNode_Flatten(t *testing.T) {
	root, err := BuildTree([]Record{
		record("r", 1, 8, 0),
		record("a", 2, 5, 1),
		record("a1", 3, 4, 2),
		record("b", 6, 7, 1),
	})
	require.NoError(t, err)

	assert.Len(t, root.Flatten(), 1, "collapsed root shows only itself")

	root.Expand()
	assert.Equal(t, []string{"r", "a", "b"}, ids(root.Flatten()))

	root.ExpandAll()
	assert.Equal(t, []string{"r", "a", "a1", "b"}, ids(root.Flatten()))

	a := root.Find("a")
	a.Toggle()
	assert.False(t, a.IsExpanded)
	assert.Equal(t, []string{"r", "a", "b"}, ids(root.Flatten()))

	a.Expand()
	a.Collapse()
	assert.Len(t, root.Flatten(), 3)

	assert.True(t, a.HasChildren())
	assert.False(t, root.Find("b").HasChildren())
}

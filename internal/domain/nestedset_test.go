package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoot(t *testing.T) {
	root := CreateRoot()
	assert.Equal(t, Bounds{Left: 1, Right: 2, Depth: 0}, root)
	assert.True(t, root.IsRoot())
	assert.True(t, root.IsLeaf())
	assert.NoError(t, root.Validate())
}

func TestBounds_Primitives(t *testing.T) {
	tests := []struct {
		name        string
		b           Bounds
		root        bool
		leaf        bool
		weight      int
		descendants int
	}{
		{"root leaf", Bounds{1, 2, 0}, true, true, 1, 0},
		{"root with two children", Bounds{1, 6, 0}, true, false, 5, 2},
		{"inner leaf", Bounds{4, 5, 2}, false, true, 1, 0},
		{"inner branch", Bounds{2, 9, 1}, false, false, 7, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.root, tt.b.IsRoot())
			assert.Equal(t, tt.leaf, tt.b.IsLeaf())
			assert.Equal(t, tt.weight, tt.b.Weight())
			assert.Equal(t, tt.descendants, tt.b.DescendantCount())
			assert.Equal(t, tt.leaf, tt.b.Weight() == 1)
			assert.Equal(t, 2*tt.descendants+1, tt.b.Weight())
		})
	}
}

func TestBounds_Validate(t *testing.T) {
	tests := []struct {
		name    string
		b       Bounds
		wantErr string
	}{
		{"valid child", Bounds{2, 3, 1}, ""},
		{"zero left", Bounds{0, 3, 1}, "below 1"},
		{"negative left", Bounds{-4, 3, 1}, "below 1"},
		{"right equals left", Bounds{3, 3, 1}, "not greater"},
		{"right below left", Bounds{5, 2, 1}, "not greater"},
		{"negative depth", Bounds{2, 3, -1}, "negative"},
		{"deep root", Bounds{1, 2, 3}, "root has depth"},
		{"shallow non-root", Bounds{2, 3, 0}, "has depth 0"},
		{"even weight", Bounds{2, 4, 1}, "even weight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsAncestorOf_BothDirections(t *testing.T) {
	parent := Bounds{2, 7, 1}
	child := Bounds{3, 4, 2}
	sibling := Bounds{8, 9, 1}

	assert.True(t, IsAncestorOf(parent, child))
	assert.False(t, IsAncestorOf(child, parent))
	assert.False(t, IsAncestorOf(parent, parent))
	assert.False(t, IsAncestorOf(parent, sibling))
	assert.False(t, IsAncestorOf(sibling, parent))
}

func TestIsEqualTo(t *testing.T) {
	assert.True(t, IsEqualTo(Bounds{2, 3, 1}, Bounds{2, 3, 1}))
	assert.True(t, IsEqualTo(Bounds{2, 3, 1}, Bounds{2, 3, 4}), "depth is not part of the interval")
	assert.False(t, IsEqualTo(Bounds{2, 3, 1}, Bounds{2, 5, 1}))
}

func TestRecord_Node(t *testing.T) {
	_, ok := Record{ID: "a"}.Node()
	assert.False(t, ok)

	b := Bounds{1, 2, 0}
	n, ok := Record{ID: "a", Bounds: &b}.Node()
	require.True(t, ok)
	assert.Equal(t, Node{ID: "a", Bounds: b}, n)
}

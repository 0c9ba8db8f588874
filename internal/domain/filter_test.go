package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRange_Constructors(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		in   []int
		out  []int
	}{
		{"eq", Eq(4), []int{4}, []int{3, 5}},
		{"gt", Gt(4), []int{5, 100}, []int{4, 3}},
		{"gte", Gte(4), []int{4, 5}, []int{3}},
		{"lt", Lt(4), []int{3, -1}, []int{4, 5}},
		{"lte", Lte(4), []int{4, 3}, []int{5}},
		{"zero", Range{}, []int{-10, 0, 10}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range tt.in {
				assert.True(t, tt.r.Match(v), "expected %d to match %s", v, tt.r)
			}
			for _, v := range tt.out {
				assert.False(t, tt.r.Match(v), "expected %d not to match %s", v, tt.r)
			}
		})
	}
}

func TestRange_And(t *testing.T) {
	r := Gt(2).And(Lt(9))
	assert.Equal(t, "3..8", r.String())

	r = r.And(Gte(5))
	assert.Equal(t, "5..8", r.String())

	assert.True(t, Eq(3).And(Eq(4)).Empty())
	assert.False(t, Eq(3).And(Gte(3)).Empty())

	// And must not alias its inputs.
	a := Gte(1)
	b := a.And(Gte(7))
	assert.Equal(t, 1, *a.Min)
	assert.Equal(t, 7, *b.Min)
}

func TestFilter_AndAndMatch(t *testing.T) {
	childOf := Filter{Depth: Eq(0), Left: Lt(2), Right: Gt(3)}
	prev := Filter{Right: Eq(10)}

	merged := childOf.And(prev)
	assert.Equal(t, "left<=1 right=10 depth=0", merged.String())

	root := Bounds{1, 10, 0}
	other := Bounds{1, 12, 0}
	assert.True(t, merged.Match(Record{ID: "r", Bounds: &root}))
	assert.False(t, merged.Match(Record{ID: "x", Bounds: &other}))
	assert.False(t, merged.Match(Record{ID: "u"}), "unpositioned records never match range filters")
	assert.True(t, Filter{}.Match(Record{ID: "u"}))
	assert.False(t, Filter{Positioned: true}.Match(Record{ID: "u"}))
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderAsc, o)

	o, err = ParseOrder("DESC")
	require.NoError(t, err)
	assert.Equal(t, OrderDesc, o)

	_, err = ParseOrder("sideways")
	assert.Error(t, err)
}

func TestPlacement_Kind(t *testing.T) {
	tests := []struct {
		name   string
		p      Placement
		kind   PlacementKind
		anchor string
		err    bool
	}{
		{"none", Placement{}, PlaceNone, "", false},
		{"child", ChildOf("p"), PlaceChildOf, "p", false},
		{"before", Before("a"), PlacePrevSiblingOf, "a", false},
		{"after", After("a"), PlaceNextSiblingOf, "a", false},
		{"two anchors", Placement{ParentID: "p", NextSiblingOf: "a"}, PlaceNone, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, anchor, err := tt.p.Kind()
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.anchor, anchor)
		})
	}
}

func TestField(t *testing.T) {
	f := NewField("tree")
	assert.Equal(t, [3]string{"tree_left", "tree_rght", "tree_depth"}, f.Columns())
	assert.NoError(t, f.Validate())

	assert.Error(t, NewField("tree; DROP TABLE x").Validate())
	assert.Error(t, Field{Name: "t", LeftColumn: "a", RightColumn: "a", DepthColumn: "b"}.Validate())
}

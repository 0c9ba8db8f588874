package domain

import "fmt"

// PlacementKind says where a node goes relative to its anchor.
type PlacementKind int

const (
	PlaceNone PlacementKind = iota
	PlaceChildOf
	PlacePrevSiblingOf
	PlaceNextSiblingOf
)

func (k PlacementKind) String() string {
	switch k {
	case PlaceChildOf:
		return "child-of"
	case PlacePrevSiblingOf:
		return "prev-sibling-of"
	case PlaceNextSiblingOf:
		return "next-sibling-of"
	default:
		return "none"
	}
}

// Placement is the position requested for a created or moved node. At most
// one of the three anchors may be set.
type Placement struct {
	ParentID      string `json:"parentId,omitempty"`
	PrevSiblingOf string `json:"prevSiblingOf,omitempty"`
	NextSiblingOf string `json:"nextSiblingOf,omitempty"`
}

// ChildOf places a node as last child of parentID.
func ChildOf(parentID string) Placement { return Placement{ParentID: parentID} }

// Before places a node immediately before anchorID.
func Before(anchorID string) Placement { return Placement{PrevSiblingOf: anchorID} }

// After places a node immediately after anchorID.
func After(anchorID string) Placement { return Placement{NextSiblingOf: anchorID} }

// IsZero reports whether no position was requested.
func (p Placement) IsZero() bool {
	return p.ParentID == "" && p.PrevSiblingOf == "" && p.NextSiblingOf == ""
}

// Kind returns the requested placement and its anchor id. It fails when more
// than one anchor is set.
func (p Placement) Kind() (PlacementKind, string, error) {
	n := 0
	kind, anchor := PlaceNone, ""
	if p.ParentID != "" {
		n++
		kind, anchor = PlaceChildOf, p.ParentID
	}
	if p.PrevSiblingOf != "" {
		n++
		kind, anchor = PlacePrevSiblingOf, p.PrevSiblingOf
	}
	if p.NextSiblingOf != "" {
		n++
		kind, anchor = PlaceNextSiblingOf, p.NextSiblingOf
	}
	if n > 1 {
		return PlaceNone, "", fmt.Errorf("placement sets %d anchors, expected at most one", n)
	}
	return kind, anchor, nil
}

func (p Placement) String() string {
	kind, anchor, err := p.Kind()
	if err != nil {
		return "invalid"
	}
	if kind == PlaceNone {
		return kind.String()
	}
	return kind.String() + " " + anchor
}

// Predicate is a relation filter over node ids. Each set field contributes a
// fragment; fragments are merged with AND.
type Predicate struct {
	PrevSiblingID string `json:"prevSiblingId,omitempty"`
	NextSiblingID string `json:"nextSiblingId,omitempty"`
	ChildOf       string `json:"childOf,omitempty"`
	ParentOf      string `json:"parentOf,omitempty"`
}

// IsZero reports whether the predicate is empty.
func (p Predicate) IsZero() bool {
	return p == Predicate{}
}

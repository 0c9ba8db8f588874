package domain

import "fmt"

// Bounds is the hierarchy triple a nested-set index keeps for one record.
type Bounds struct {
	Left  int `json:"left" yaml:"left"`
	Right int `json:"right" yaml:"right"`
	Depth int `json:"depth" yaml:"depth"`
}

// CreateRoot returns the bootstrap interval of the first node of an empty tree.
func CreateRoot() Bounds {
	return Bounds{Left: 1, Right: 2, Depth: 0}
}

// IsRoot reports whether b is the root interval.
func (b Bounds) IsRoot() bool {
	return b.Left == 1
}

// IsLeaf reports whether b has no descendants.
func (b Bounds) IsLeaf() bool {
	return b.Right-b.Left == 1
}

// Weight is right minus left: 1 for a leaf, 2*descendants+1 in general.
func (b Bounds) Weight() int {
	return b.Right - b.Left
}

// Width is the number of integers the subtree occupies, bounds included.
func (b Bounds) Width() int {
	return b.Right - b.Left + 1
}

// DescendantCount derives the number of descendants from the interval alone.
func (b Bounds) DescendantCount() int {
	return (b.Right - b.Left - 1) / 2
}

// Contains reports whether other lies strictly inside b.
func (b Bounds) Contains(other Bounds) bool {
	return b.Left < other.Left && b.Right > other.Right
}

// Validate checks the per-node invariants.
func (b Bounds) Validate() error {
	switch {
	case b.Left < 1:
		return fmt.Errorf("left %d is below 1", b.Left)
	case b.Right <= b.Left:
		return fmt.Errorf("right %d is not greater than left %d", b.Right, b.Left)
	case b.Depth < 0:
		return fmt.Errorf("depth %d is negative", b.Depth)
	case b.IsRoot() && b.Depth != 0:
		return fmt.Errorf("root has depth %d", b.Depth)
	case !b.IsRoot() && b.Depth == 0:
		return fmt.Errorf("non-root interval [%d,%d] has depth 0", b.Left, b.Right)
	case (b.Right-b.Left)%2 != 1:
		return fmt.Errorf("interval [%d,%d] has even weight", b.Left, b.Right)
	}
	return nil
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%d,%d]@%d", b.Left, b.Right, b.Depth)
}

// IsAncestorOf reports whether ancestor strictly contains descendant.
// Arguments are always ancestor first.
func IsAncestorOf(ancestor, descendant Bounds) bool {
	return ancestor.Contains(descendant)
}

// IsEqualTo reports whether two intervals coincide. For distinct records this
// means the tree is corrupt.
func IsEqualTo(a, b Bounds) bool {
	return a.Left == b.Left && a.Right == b.Right
}

// Node is a positioned record as the engine sees it.
type Node struct {
	ID string
	Bounds
}

// Record is a row of a list carrying one hierarchy field. Bounds is nil for
// records that were never positioned.
type Record struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Bounds *Bounds `json:"bounds,omitempty"`
}

// Node returns the record as a positioned node. ok is false when the record
// has no bounds.
func (r Record) Node() (Node, bool) {
	if r.Bounds == nil {
		return Node{}, false
	}
	return Node{ID: r.ID, Bounds: *r.Bounds}, true
}

package domain

// Patch is a partial update of a node's hierarchy columns. Nil fields are
// left untouched.
type Patch struct {
	Left  *int
	Right *int
	Depth *int
}

// Diff returns the patch turning from into to.
func Diff(from, to Bounds) Patch {
	var p Patch
	if from.Left != to.Left {
		v := to.Left
		p.Left = &v
	}
	if from.Right != to.Right {
		v := to.Right
		p.Right = &v
	}
	if from.Depth != to.Depth {
		v := to.Depth
		p.Depth = &v
	}
	return p
}

// Set returns a patch writing every column of b.
func Set(b Bounds) Patch {
	return Patch{Left: &b.Left, Right: &b.Right, Depth: &b.Depth}
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Left == nil && p.Right == nil && p.Depth == nil
}

// Apply returns b with the patch applied.
func (p Patch) Apply(b Bounds) Bounds {
	if p.Left != nil {
		b.Left = *p.Left
	}
	if p.Right != nil {
		b.Right = *p.Right
	}
	if p.Depth != nil {
		b.Depth = *p.Depth
	}
	return b
}

package domain

import (
	"fmt"
	"slices"
)

// Violation describes one broken invariant.
type Violation struct {
	ID      string
	Message string
}

func (v Violation) String() string {
	if v.ID == "" {
		return v.Message
	}
	return v.ID + ": " + v.Message
}

// Verify checks a whole tree. The nodes may come in any order. An empty slice
// is a valid empty tree.
func Verify(nodes []Node) []Violation {
	var out []Violation
	if len(nodes) == 0 {
		return nil
	}

	sorted := slices.Clone(nodes)
	slices.SortFunc(sorted, func(a, b Node) int { return a.Left - b.Left })

	seen := make(map[int]string, 2*len(sorted))
	claim := func(id string, v int) {
		if other, ok := seen[v]; ok {
			out = append(out, Violation{id, fmt.Sprintf("bound %d already used by %s", v, other)})
			return
		}
		seen[v] = id
	}

	roots := 0
	for _, n := range sorted {
		if err := n.Bounds.Validate(); err != nil {
			out = append(out, Violation{n.ID, err.Error()})
		}
		if n.IsRoot() {
			roots++
		}
		claim(n.ID, n.Left)
		claim(n.ID, n.Right)
	}
	if roots != 1 {
		out = append(out, Violation{"", fmt.Sprintf("expected exactly one root, found %d", roots)})
	}

	var stack []Node
	for _, n := range sorted {
		for len(stack) > 0 && stack[len(stack)-1].Right < n.Left {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if !IsAncestorOf(top.Bounds, n.Bounds) {
				out = append(out, Violation{n.ID, fmt.Sprintf("interval %s partially overlaps %s %s", n.Bounds, top.ID, top.Bounds)})
				continue
			}
		} else if !n.IsRoot() {
			out = append(out, Violation{n.ID, fmt.Sprintf("interval %s is outside every root", n.Bounds)})
		}
		if n.Depth != len(stack) {
			out = append(out, Violation{n.ID, fmt.Sprintf("depth %d but %d ancestors", n.Depth, len(stack))})
		}
		stack = append(stack, n)
	}

	for v := 1; v <= 2*len(sorted); v++ {
		if _, ok := seen[v]; !ok {
			out = append(out, Violation{"", fmt.Sprintf("gap at bound %d", v)})
			break
		}
	}
	return out
}

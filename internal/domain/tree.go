package domain

import "fmt"

// TreeNode is an assembled view of a positioned record for navigation and
// rendering.
type TreeNode struct {
	ID         string
	Label      string
	Bounds     Bounds
	Children   []*TreeNode
	IsExpanded bool
	Parent     *TreeNode
}

// Flatten returns all visible nodes in the tree (for list rendering)
func (n *TreeNode) Flatten() []*TreeNode {
	var result []*TreeNode
	n.flattenRecursive(&result)
	return result
}

func (n *TreeNode) flattenRecursive(result *[]*TreeNode) {
	*result = append(*result, n)
	if n.IsExpanded {
		for _, child := range n.Children {
			child.flattenRecursive(result)
		}
	}
}

// Walk visits n and every descendant in document order.
func (n *TreeNode) Walk(fn func(*TreeNode)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Find returns the node with id in the subtree rooted at n.
func (n *TreeNode) Find(id string) *TreeNode {
	if n.ID == id {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// HasChildren reports whether the node has descendants according to its bounds.
func (n *TreeNode) HasChildren() bool {
	return !n.Bounds.IsLeaf()
}

// Toggle expands or collapses the node
func (n *TreeNode) Toggle() {
	n.IsExpanded = !n.IsExpanded
}

// Expand sets the node as expanded
func (n *TreeNode) Expand() {
	n.IsExpanded = true
}

// ExpandAll expands n and every descendant.
func (n *TreeNode) ExpandAll() {
	n.Walk(func(t *TreeNode) { t.IsExpanded = true })
}

// Collapse sets the node as collapsed
func (n *TreeNode) Collapse() {
	n.IsExpanded = false
}

// BuildTree assembles records sorted by ascending left into a tree. Records
// without bounds are skipped. It returns nil for an empty tree and fails when
// the intervals are not properly nested.
func BuildTree(records []Record) (*TreeNode, error) {
	var root *TreeNode
	var stack []*TreeNode
	for _, r := range records {
		if r.Bounds == nil {
			continue
		}
		node := &TreeNode{ID: r.ID, Label: r.Label, Bounds: *r.Bounds}
		for len(stack) > 0 && stack[len(stack)-1].Bounds.Right < node.Bounds.Left {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			if root != nil {
				return nil, fmt.Errorf("record %s at %s lies outside root %s", r.ID, node.Bounds, root.Bounds)
			}
			root = node
			stack = append(stack, node)
			continue
		}
		parent := stack[len(stack)-1]
		if !parent.Bounds.Contains(node.Bounds) {
			return nil, fmt.Errorf("record %s at %s overlaps %s at %s", r.ID, node.Bounds, parent.ID, parent.Bounds)
		}
		node.Parent = parent
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)
	}
	return root, nil
}

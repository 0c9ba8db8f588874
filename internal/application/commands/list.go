package commands

import (
	"context"
	"errors"
	"fmt"

	"nestedset/internal/application"
	"nestedset/internal/domain"
	"nestedset/internal/engine"
)

// ListResult contains the records a query matched
type ListResult struct {
	Records []domain.Record
	Filter  domain.Filter
	Order   domain.Order
}

// ListCommand lists the records matching a relation predicate. An empty
// predicate lists every record of the list, positioned ones in tree order.
type ListCommand struct {
	tree      Tree
	Predicate domain.Predicate
	Direction string
}

// NewListCommand creates a new ListCommand
func NewListCommand(tree Tree, pred domain.Predicate, direction string) *ListCommand {
	return &ListCommand{
		tree:      tree,
		Predicate: pred,
		Direction: direction,
	}
}

// Validate checks the predicate anchors and the sort direction
func (c *ListCommand) Validate() error {
	anchors := []struct{ field, id string }{
		{"prevSiblingOf", c.Predicate.PrevSiblingID},
		{"nextSiblingOf", c.Predicate.NextSiblingID},
		{"childOf", c.Predicate.ChildOf},
		{"parentOf", c.Predicate.ParentOf},
	}
	for _, a := range anchors {
		if a.id == "" {
			continue
		}
		if err := application.ValidateID(a.field, a.id); err != nil {
			return err
		}
	}
	_, err := engine.ResolveOrder(c.Direction)
	return err
}

// Execute runs the list command
func (c *ListCommand) Execute(ctx context.Context) (*ListResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	order, err := engine.ResolveOrder(c.Direction)
	if err != nil {
		return nil, err
	}

	q := c.tree.Queries()
	filter, err := q.ResolveFilter(ctx, c.Predicate)
	if err != nil {
		return nil, err
	}
	recs, err := q.Find(ctx, filter, order)
	if err != nil {
		return nil, err
	}
	return &ListResult{Records: recs, Filter: filter, Order: order}, nil
}

// BuildTreeCommand builds the complete tree structure
type BuildTreeCommand struct {
	tree Tree
}

// NewBuildTreeCommand creates a new BuildTreeCommand
func NewBuildTreeCommand(tree Tree) *BuildTreeCommand {
	return &BuildTreeCommand{tree: tree}
}

// Execute runs the build tree command. It returns nil for an empty tree.
func (c *BuildTreeCommand) Execute(ctx context.Context) (*domain.TreeNode, error) {
	return c.tree.Queries().GetTree(ctx)
}

// ShowResult describes one record and its neighbourhood
type ShowResult struct {
	Record      domain.Record
	Parent      *domain.Node
	Ancestors   []domain.Node
	Children    []domain.Node
	Siblings    []domain.Node
	Descendants int
	Weight      int
	Leaf        bool
	// Subtree lists every descendant in document order when the command
	// asked for it.
	Subtree []domain.Node
}

// ShowCommand looks up a record and its relations
type ShowCommand struct {
	tree Tree
	ID   string
	// WithSubtree also loads every descendant.
	WithSubtree bool
}

// NewShowCommand creates a new ShowCommand
func NewShowCommand(tree Tree, id string) *ShowCommand {
	return &ShowCommand{tree: tree, ID: id}
}

// Validate checks if the show operation is valid
func (c *ShowCommand) Validate() error {
	return application.ValidateID("id", c.ID)
}

// Execute runs the show command
func (c *ShowCommand) Execute(ctx context.Context) (*ShowResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	q := c.tree.Queries()
	rec, err := q.GetRecord(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	res := &ShowResult{Record: rec}
	if rec.Bounds == nil {
		return res, nil
	}

	node, err := q.Get(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	res.Weight = node.Weight()
	res.Leaf = node.IsLeaf()
	if res.Parent, err = q.GetParent(ctx, node); err != nil {
		return nil, err
	}
	if res.Ancestors, err = q.GetAncestors(ctx, node); err != nil {
		return nil, err
	}
	if res.Children, err = q.GetChildren(ctx, node); err != nil {
		return nil, err
	}
	if res.Siblings, err = q.GetSiblings(ctx, node); err != nil {
		return nil, err
	}
	if res.Descendants, err = q.GetChildrenCount(ctx, node); err != nil {
		return nil, err
	}
	if c.WithSubtree {
		if res.Subtree, err = q.GetDescendants(ctx, node); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// VerifyResult reports the outcome of an invariant check
type VerifyResult struct {
	Nodes        int
	Unpositioned []domain.Record
	Violations   []domain.Violation
	Message      string
}

// OK reports whether no invariant is broken
func (r *VerifyResult) OK() bool {
	return len(r.Violations) == 0
}

// VerifyCommand checks every tree invariant
type VerifyCommand struct {
	tree Tree
}

// NewVerifyCommand creates a new VerifyCommand
func NewVerifyCommand(tree Tree) *VerifyCommand {
	return &VerifyCommand{tree: tree}
}

// Execute runs the verify command. Broken invariants are reported in the
// result; only failures to read the tree are returned as errors.
func (c *VerifyCommand) Execute(ctx context.Context) (*VerifyResult, error) {
	q := c.tree.Queries()
	res := &VerifyResult{}

	nodes, err := q.Find(ctx, domain.Filter{Positioned: true}, domain.OrderAsc)
	if err != nil {
		return nil, err
	}
	res.Nodes = len(nodes)
	if res.Unpositioned, err = q.Unpositioned(ctx); err != nil {
		return nil, err
	}

	var ce *application.ConsistencyError
	switch err := q.Verify(ctx); {
	case err == nil:
		res.Message = fmt.Sprintf("OK: %d nodes", res.Nodes)
	case errors.As(err, &ce):
		res.Violations = ce.Violations
		res.Message = fmt.Sprintf("%d violations in %d nodes", len(ce.Violations), res.Nodes)
	default:
		return nil, err
	}
	if n := len(res.Unpositioned); n > 0 {
		res.Message += fmt.Sprintf(", %d unpositioned", n)
	}
	return res, nil
}

// ResumeResult reports whether a halted tree accepts mutations again
type ResumeResult struct {
	Resumed bool
	Verify  *VerifyResult
	Message string
}

// ResumeCommand lifts the halt left by a failed rollback once the tree
// verifies clean. A tree with violations stays halted.
type ResumeCommand struct {
	tree Tree
}

// NewResumeCommand creates a new ResumeCommand
func NewResumeCommand(tree Tree) *ResumeCommand {
	return &ResumeCommand{tree: tree}
}

// Execute runs the resume command
func (c *ResumeCommand) Execute(ctx context.Context) (*ResumeResult, error) {
	if !c.tree.Halted() {
		return &ResumeResult{Message: "Tree is not halted"}, nil
	}

	v, err := NewVerifyCommand(c.tree).Execute(ctx)
	if err != nil {
		return nil, err
	}
	res := &ResumeResult{Verify: v}
	if !v.OK() {
		return res, &application.ConsistencyError{
			Reason:     "tree stays halted: " + v.Message,
			Violations: v.Violations,
		}
	}

	c.tree.Resume()
	res.Resumed = true
	res.Message = "Resumed after verify: " + v.Message
	return res, nil
}

package engine

import (
	"context"
	"fmt"

	"nestedset/internal/application"
	"nestedset/internal/domain"
	"nestedset/internal/ports"
)

// Queries are the read operations of the engine. Outside a Unit they see
// committed state; inside one they see the unit's own writes.
type Queries struct {
	r     ports.TreeReader
	list  string
	field string
}

func newQueries(r ports.TreeReader, list, field string) Queries {
	return Queries{r: r, list: list, field: field}
}

func (q *Queries) notFound(id string) error {
	return &application.NotFoundError{List: q.list + "." + q.field, ID: id}
}

// toNode converts a stored record and checks its bounds.
func toNode(rec domain.Record) (domain.Node, error) {
	n, ok := rec.Node()
	if !ok {
		return domain.Node{}, fmt.Errorf("record %s has no bounds", rec.ID)
	}
	if err := n.Validate(); err != nil {
		return domain.Node{}, &application.ConsistencyError{
			Reason:     "invalid bounds read",
			Violations: []domain.Violation{{ID: n.ID, Message: err.Error()}},
		}
	}
	return n, nil
}

func toNodes(recs []domain.Record) ([]domain.Node, error) {
	nodes := make([]domain.Node, 0, len(recs))
	for _, rec := range recs {
		n, err := toNode(rec)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// Get returns the positioned node with id. Unknown ids and records that were
// never positioned both yield a NotFoundError.
func (q *Queries) Get(ctx context.Context, id string) (domain.Node, error) {
	rec, err := q.r.FindOne(ctx, id)
	if err != nil {
		return domain.Node{}, fmt.Errorf("find %s: %w", id, err)
	}
	if rec == nil || rec.Bounds == nil {
		return domain.Node{}, q.notFound(id)
	}
	return toNode(*rec)
}

// GetRecord returns the record with id whether or not it is positioned.
func (q *Queries) GetRecord(ctx context.Context, id string) (domain.Record, error) {
	rec, err := q.r.FindOne(ctx, id)
	if err != nil {
		return domain.Record{}, fmt.Errorf("find %s: %w", id, err)
	}
	if rec == nil {
		return domain.Record{}, q.notFound(id)
	}
	return *rec, nil
}

func (q *Queries) findNodes(ctx context.Context, f domain.Filter, o domain.Order) ([]domain.Node, error) {
	f.Positioned = true
	recs, err := q.r.FindMany(ctx, f, o)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", f, err)
	}
	return toNodes(recs)
}

// GetRoot returns the root node, or nil for an empty tree.
func (q *Queries) GetRoot(ctx context.Context) (*domain.Node, error) {
	roots, err := q.findNodes(ctx, domain.Filter{Depth: domain.Eq(0), Left: domain.Eq(1)}, domain.OrderAsc)
	if err != nil {
		return nil, err
	}
	switch len(roots) {
	case 0:
		return nil, nil
	case 1:
		return &roots[0], nil
	}
	return nil, &application.ConsistencyError{Reason: fmt.Sprintf("found %d roots", len(roots))}
}

// GetParentID returns the id of the node's parent, or "" for the root.
func (q *Queries) GetParentID(ctx context.Context, node domain.Node) (string, error) {
	parent, err := q.GetParent(ctx, node)
	if err != nil || parent == nil {
		return "", err
	}
	return parent.ID, nil
}

// GetParent returns the node's parent, or nil for the root. A non-root node
// without exactly one parent means the tree is corrupt.
func (q *Queries) GetParent(ctx context.Context, node domain.Node) (*domain.Node, error) {
	if node.IsRoot() {
		return nil, nil
	}
	parents, err := q.findNodes(ctx, childOf(node.Bounds), domain.OrderAsc)
	if err != nil {
		return nil, err
	}
	if len(parents) != 1 {
		return nil, &application.ConsistencyError{
			Reason:     "parent lookup",
			Violations: []domain.Violation{{ID: node.ID, Message: fmt.Sprintf("%d parents at depth %d", len(parents), node.Depth-1)}},
		}
	}
	return &parents[0], nil
}

// GetChildrenCount counts every descendant of node, direct or not.
func (q *Queries) GetChildrenCount(ctx context.Context, node domain.Node) (int, error) {
	if node.IsLeaf() {
		return 0, nil
	}
	n, err := q.r.Count(ctx, domain.Filter{Left: domain.Gt(node.Left), Right: domain.Lt(node.Right), Positioned: true})
	if err != nil {
		return 0, fmt.Errorf("count descendants of %s: %w", node.ID, err)
	}
	return n, nil
}

// GetChildren returns the direct children of node in sibling order.
func (q *Queries) GetChildren(ctx context.Context, node domain.Node) ([]domain.Node, error) {
	if node.IsLeaf() {
		return nil, nil
	}
	return q.findNodes(ctx, parentOf(node.Bounds), domain.OrderAsc)
}

// GetDescendants returns every node below node in document order.
func (q *Queries) GetDescendants(ctx context.Context, node domain.Node) ([]domain.Node, error) {
	if node.IsLeaf() {
		return nil, nil
	}
	return q.findNodes(ctx, domain.Filter{Left: domain.Gt(node.Left), Right: domain.Lt(node.Right)}, domain.OrderAsc)
}

// GetAncestors returns the ancestors of node from the root down.
func (q *Queries) GetAncestors(ctx context.Context, node domain.Node) ([]domain.Node, error) {
	if node.IsRoot() {
		return nil, nil
	}
	return q.findNodes(ctx, domain.Filter{Left: domain.Lt(node.Left), Right: domain.Gt(node.Right)}, domain.OrderAsc)
}

// GetSiblings returns the other children of node's parent in sibling order.
func (q *Queries) GetSiblings(ctx context.Context, node domain.Node) ([]domain.Node, error) {
	parent, err := q.GetParent(ctx, node)
	if err != nil || parent == nil {
		return nil, err
	}
	children, err := q.GetChildren(ctx, *parent)
	if err != nil {
		return nil, err
	}
	siblings := children[:0]
	for _, c := range children {
		if c.ID != node.ID {
			siblings = append(siblings, c)
		}
	}
	return siblings, nil
}

// GetTree loads every positioned record and assembles it. It returns nil for
// an empty tree.
func (q *Queries) GetTree(ctx context.Context) (*domain.TreeNode, error) {
	recs, err := q.r.FindMany(ctx, domain.Filter{Positioned: true}, domain.OrderAsc)
	if err != nil {
		return nil, fmt.Errorf("load tree: %w", err)
	}
	root, err := domain.BuildTree(recs)
	if err != nil {
		return nil, &application.ConsistencyError{Reason: err.Error()}
	}
	return root, nil
}

// Unpositioned returns the records of the list that carry no bounds.
func (q *Queries) Unpositioned(ctx context.Context) ([]domain.Record, error) {
	recs, err := q.r.FindMany(ctx, domain.Filter{}, domain.OrderAsc)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	var out []domain.Record
	for _, rec := range recs {
		if rec.Bounds == nil {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Verify reads the whole tree and checks every invariant.
func (q *Queries) Verify(ctx context.Context) error {
	recs, err := q.r.FindMany(ctx, domain.Filter{Positioned: true}, domain.OrderAsc)
	if err != nil {
		return fmt.Errorf("load tree: %w", err)
	}
	nodes := make([]domain.Node, 0, len(recs))
	for _, rec := range recs {
		if n, ok := rec.Node(); ok {
			nodes = append(nodes, n)
		}
	}
	if violations := domain.Verify(nodes); len(violations) > 0 {
		return &application.ConsistencyError{Reason: "verify", Violations: violations}
	}
	return nil
}

// PrevSiblingFilter matches the node immediately before id.
func (q *Queries) PrevSiblingFilter(ctx context.Context, id string) (domain.Filter, error) {
	target, err := q.Get(ctx, id)
	if err != nil {
		return domain.Filter{}, err
	}
	return domain.Filter{Right: domain.Eq(target.Left - 1), Positioned: true}, nil
}

// NextSiblingFilter matches the node immediately after id.
func (q *Queries) NextSiblingFilter(ctx context.Context, id string) (domain.Filter, error) {
	target, err := q.Get(ctx, id)
	if err != nil {
		return domain.Filter{}, err
	}
	return domain.Filter{Left: domain.Eq(target.Right + 1), Positioned: true}, nil
}

// ChildOfFilter matches the node id is a child of.
func (q *Queries) ChildOfFilter(ctx context.Context, id string) (domain.Filter, error) {
	target, err := q.Get(ctx, id)
	if err != nil {
		return domain.Filter{}, err
	}
	return childOf(target.Bounds), nil
}

// ParentOfFilter matches the nodes id is the parent of.
func (q *Queries) ParentOfFilter(ctx context.Context, id string) (domain.Filter, error) {
	target, err := q.Get(ctx, id)
	if err != nil {
		return domain.Filter{}, err
	}
	return parentOf(target.Bounds), nil
}

func childOf(b domain.Bounds) domain.Filter {
	return domain.Filter{
		Depth:      domain.Eq(b.Depth - 1),
		Left:       domain.Lt(b.Left),
		Right:      domain.Gt(b.Right),
		Positioned: true,
	}
}

func parentOf(b domain.Bounds) domain.Filter {
	return domain.Filter{
		Depth:      domain.Eq(b.Depth + 1),
		Left:       domain.Gt(b.Left),
		Right:      domain.Lt(b.Right),
		Positioned: true,
	}
}

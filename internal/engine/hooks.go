package engine

import (
	"context"
	"fmt"

	"nestedset/internal/application"
	"nestedset/internal/domain"
)

// ResolveCreate positions a new record. Without a placement the record
// becomes the root of an empty tree, or the last child of the existing root.
func (u *Unit) ResolveCreate(ctx context.Context, p domain.Placement) (domain.Bounds, error) {
	kind, anchor, err := p.Kind()
	if err != nil {
		return domain.Bounds{}, &application.PlacementError{Placement: p, Reason: err.Error()}
	}
	switch kind {
	case domain.PlaceChildOf:
		return u.InsertLastChildOf(ctx, anchor)
	case domain.PlacePrevSiblingOf:
		return u.InsertPrevSiblingOf(ctx, anchor)
	case domain.PlaceNextSiblingOf:
		return u.InsertNextSiblingOf(ctx, anchor)
	}

	root, err := u.GetRoot(ctx)
	if err != nil {
		return domain.Bounds{}, err
	}
	if root == nil {
		return domain.CreateRoot(), nil
	}
	return u.InsertLastChildOf(ctx, root.ID)
}

// ResolveUpdate repositions record id. A record that was never positioned is
// inserted as on create; an empty placement keeps the prior bounds.
func (u *Unit) ResolveUpdate(ctx context.Context, id string, prior *domain.Bounds, p domain.Placement) (domain.Bounds, error) {
	if prior == nil {
		return u.ResolveCreate(ctx, p)
	}
	if p.IsZero() {
		return *prior, nil
	}
	return u.Move(ctx, id, p)
}

// ValidateDelete reports whether id may be deleted without writing anything.
func (u *Unit) ValidateDelete(ctx context.Context, id string) error {
	node, err := u.Get(ctx, id)
	if err != nil {
		return err
	}
	if node.IsRoot() && !node.IsLeaf() {
		return fmt.Errorf("delete %s: %w", id, application.ErrRootHasChildren)
	}
	return nil
}

// ResolveDelete closes the interval of id, promoting its children.
func (u *Unit) ResolveDelete(ctx context.Context, id string) error {
	return u.Delete(ctx, id)
}

// ResolveFilter turns a relation predicate into a store filter. Fragments
// from several relations are merged with AND.
func (q *Queries) ResolveFilter(ctx context.Context, pred domain.Predicate) (domain.Filter, error) {
	var out domain.Filter
	steps := []struct {
		id      string
		resolve func(context.Context, string) (domain.Filter, error)
	}{
		{pred.PrevSiblingID, q.PrevSiblingFilter},
		{pred.NextSiblingID, q.NextSiblingFilter},
		{pred.ChildOf, q.ChildOfFilter},
		{pred.ParentOf, q.ParentOfFilter},
	}
	for _, s := range steps {
		if s.id == "" {
			continue
		}
		f, err := s.resolve(ctx, s.id)
		if err != nil {
			return domain.Filter{}, err
		}
		out = out.And(f)
	}
	return out, nil
}

// ResolveOrder maps a sort direction onto left order, which is sibling order.
func ResolveOrder(direction string) (domain.Order, error) {
	o, err := domain.ParseOrder(direction)
	if err != nil {
		return domain.Order{}, &application.ValidationError{Field: "order", Message: err.Error()}
	}
	return o, nil
}

// Find runs a resolved filter.
func (q *Queries) Find(ctx context.Context, f domain.Filter, o domain.Order) ([]domain.Record, error) {
	recs, err := q.r.FindMany(ctx, f, o)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", f, err)
	}
	return recs, nil
}

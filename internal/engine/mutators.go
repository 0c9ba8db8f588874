package engine

import (
	"context"
	"fmt"
	"log/slog"

	"nestedset/internal/application"
	"nestedset/internal/domain"
	"nestedset/internal/ports"
)

// Unit is one unit of work against the tree. Mutators never write the row
// they position; they return its new bounds for the caller to persist in the
// same unit.
type Unit struct {
	Queries

	tx      ports.RecordTx
	op      string
	log     *slog.Logger
	written int
}

// Records exposes the record lifecycle of the unit's transaction.
func (u *Unit) Records() ports.RecordTx {
	return u.tx
}

// load reads every row with right >= from. Rows entirely to the left of from
// are unaffected by any shift at or beyond it.
func (u *Unit) load(ctx context.Context, from int) (*workset, error) {
	nodes, err := u.findNodes(ctx, domain.Filter{Right: domain.Gte(from)}, domain.OrderAsc)
	if err != nil {
		return nil, err
	}
	return newWorkset(nodes), nil
}

// apply writes the workset's net changes, skipping the subject row.
func (u *Unit) apply(ctx context.Context, ws *workset, subject string) error {
	changes := ws.changes(subject)
	for _, c := range changes {
		if err := u.tx.UpdateOne(ctx, c.id, c.patch); err != nil {
			return &application.TransactionError{Op: u.op, Err: fmt.Errorf("update %s: %w", c.id, err)}
		}
	}
	u.written += len(changes)
	u.log.Debug("nested set shift applied",
		slog.String("op", u.op),
		slog.String("subject", subject),
		slog.Int("rows", len(changes)))
	return nil
}

// InsertRoot returns the bootstrap interval. It fails if the tree already
// has a root.
func (u *Unit) InsertRoot(ctx context.Context) (domain.Bounds, error) {
	root, err := u.GetRoot(ctx)
	if err != nil {
		return domain.Bounds{}, err
	}
	if root != nil {
		return domain.Bounds{}, &application.PlacementError{Reason: "tree already has root " + root.ID}
	}
	return domain.CreateRoot(), nil
}

// InsertLastChildOf reserves the slot after the last child of parentID.
func (u *Unit) InsertLastChildOf(ctx context.Context, parentID string) (domain.Bounds, error) {
	parent, err := u.Get(ctx, parentID)
	if err != nil {
		return domain.Bounds{}, err
	}
	ws, err := u.load(ctx, parent.Right)
	if err != nil {
		return domain.Bounds{}, err
	}
	ws.shift(parent.Right, 2)
	if err := u.apply(ctx, ws, ""); err != nil {
		return domain.Bounds{}, err
	}
	return domain.Bounds{Left: parent.Right, Right: parent.Right + 1, Depth: parent.Depth + 1}, nil
}

// InsertPrevSiblingOf reserves the slot immediately before anchorID.
func (u *Unit) InsertPrevSiblingOf(ctx context.Context, anchorID string) (domain.Bounds, error) {
	anchor, err := u.siblingAnchor(ctx, domain.Before(anchorID))
	if err != nil {
		return domain.Bounds{}, err
	}
	return u.insertAt(ctx, anchor.Left, anchor.Depth)
}

// InsertNextSiblingOf reserves the slot immediately after anchorID.
func (u *Unit) InsertNextSiblingOf(ctx context.Context, anchorID string) (domain.Bounds, error) {
	anchor, err := u.siblingAnchor(ctx, domain.After(anchorID))
	if err != nil {
		return domain.Bounds{}, err
	}
	return u.insertAt(ctx, anchor.Right+1, anchor.Depth)
}

func (u *Unit) siblingAnchor(ctx context.Context, p domain.Placement) (domain.Node, error) {
	_, anchorID, _ := p.Kind()
	anchor, err := u.Get(ctx, anchorID)
	if err != nil {
		return domain.Node{}, err
	}
	if anchor.IsRoot() {
		return domain.Node{}, &application.PlacementError{Placement: p, Reason: "the root has no siblings"}
	}
	return anchor, nil
}

func (u *Unit) insertAt(ctx context.Context, first, depth int) (domain.Bounds, error) {
	ws, err := u.load(ctx, first)
	if err != nil {
		return domain.Bounds{}, err
	}
	ws.shift(first, 2)
	if err := u.apply(ctx, ws, ""); err != nil {
		return domain.Bounds{}, err
	}
	return domain.Bounds{Left: first, Right: first + 1, Depth: depth}, nil
}

// Move relocates the subtree of id to p and returns the node's new bounds.
// Moving relative to the node itself or one of its descendants fails with a
// CyclicMoveError before anything is written.
func (u *Unit) Move(ctx context.Context, id string, p domain.Placement) (domain.Bounds, error) {
	kind, anchorID, err := p.Kind()
	if err != nil {
		return domain.Bounds{}, &application.PlacementError{Placement: p, Reason: err.Error()}
	}
	if kind == domain.PlaceNone {
		return domain.Bounds{}, &application.PlacementError{Placement: p, Reason: "no destination given"}
	}

	current, err := u.Get(ctx, id)
	if err != nil {
		return domain.Bounds{}, err
	}
	anchor, err := u.Get(ctx, anchorID)
	if err != nil {
		return domain.Bounds{}, err
	}
	if anchor.ID == current.ID || domain.IsEqualTo(current.Bounds, anchor.Bounds) || domain.IsAncestorOf(current.Bounds, anchor.Bounds) {
		return domain.Bounds{}, &application.CyclicMoveError{ID: id, TargetID: anchorID}
	}

	var dest, depth int
	switch kind {
	case domain.PlaceChildOf:
		dest, depth = anchor.Right, anchor.Depth+1
	case domain.PlacePrevSiblingOf, domain.PlaceNextSiblingOf:
		if anchor.IsRoot() {
			return domain.Bounds{}, &application.PlacementError{Placement: p, Reason: "the root has no siblings"}
		}
		dest, depth = anchor.Left, anchor.Depth
		if kind == domain.PlaceNextSiblingOf {
			dest = anchor.Right + 1
		}
	}

	ws, err := u.load(ctx, min(dest, current.Left))
	if err != nil {
		return domain.Bounds{}, err
	}
	ws.move(id, dest, depth-current.Depth)
	if err := u.apply(ctx, ws, id); err != nil {
		return domain.Bounds{}, err
	}
	moved, _ := ws.get(id)
	return moved, nil
}

// Delete closes the interval of id. Its children are promoted into its
// slot under its parent, in their current order and with their subtrees
// unchanged. The record itself is left for the caller to remove in the same
// unit.
func (u *Unit) Delete(ctx context.Context, id string) error {
	if err := u.ValidateDelete(ctx, id); err != nil {
		return err
	}
	node, err := u.Get(ctx, id)
	if err != nil {
		return err
	}
	if !node.IsRoot() {
		// A missing parent means the tree is already corrupt.
		if _, err := u.GetParent(ctx, node); err != nil {
			return err
		}
	}

	ws, err := u.load(ctx, node.Left)
	if err != nil {
		return err
	}
	ws.dissolve(id)
	return u.apply(ctx, ws, id)
}

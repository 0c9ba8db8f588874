package commands

import (
	"context"
	"fmt"

	"nestedset/internal/application"
	"nestedset/internal/engine"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	DeletedID string
	Label     string
	// ParentID is the node the children were promoted under, "" for the root.
	ParentID string
	Promoted int
	Message  string
}

// DeleteCommand deletes a record. Its children move up into its place.
type DeleteCommand struct {
	tree Tree
	ID   string
}

// NewDeleteCommand creates a new DeleteCommand
func NewDeleteCommand(tree Tree, id string) *DeleteCommand {
	return &DeleteCommand{
		tree: tree,
		ID:   id,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteCommand) Validate() error {
	return application.ValidateID("id", c.ID)
}

// Execute runs the delete command
func (c *DeleteCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	res := &DeleteResult{DeletedID: c.ID}
	err := c.tree.Update(ctx, "delete", func(ctx context.Context, u *engine.Unit) error {
		rec, err := u.GetRecord(ctx, c.ID)
		if err != nil {
			return err
		}
		res.Label = rec.Label
		if rec.Bounds != nil {
			if err := u.ValidateDelete(ctx, c.ID); err != nil {
				return err
			}
			node, err := u.Get(ctx, c.ID)
			if err != nil {
				return err
			}
			if res.ParentID, err = u.GetParentID(ctx, node); err != nil {
				return err
			}
			children, err := u.GetChildren(ctx, node)
			if err != nil {
				return err
			}
			res.Promoted = len(children)
			if err := u.ResolveDelete(ctx, c.ID); err != nil {
				return err
			}
		}
		return u.Records().DeleteRecord(ctx, c.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", c.ID, err)
	}

	res.Message = fmt.Sprintf("Deleted %s %s", c.ID, res.Label)
	if res.Promoted > 0 {
		res.Message += fmt.Sprintf(" (%d children promoted under %s)", res.Promoted, res.ParentID)
	}
	return res, nil
}

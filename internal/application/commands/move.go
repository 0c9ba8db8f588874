package commands

import (
	"context"
	"fmt"

	"nestedset/internal/application"
	"nestedset/internal/domain"
	"nestedset/internal/engine"
)

// MoveResult contains the result of moving a subtree
type MoveResult struct {
	ID      string
	From    domain.Bounds
	To      domain.Bounds
	Message string
}

// MoveCommand moves a record and its subtree to a new position
type MoveCommand struct {
	tree      Tree
	ID        string
	Placement domain.Placement
}

// NewMoveCommand creates a new MoveCommand
func NewMoveCommand(tree Tree, id string, placement domain.Placement) *MoveCommand {
	return &MoveCommand{
		tree:      tree,
		ID:        id,
		Placement: placement,
	}
}

// Validate checks if the move operation is valid
func (c *MoveCommand) Validate() error {
	if err := application.ValidateID("id", c.ID); err != nil {
		return err
	}
	if c.Placement.IsZero() {
		return &application.ValidationError{
			Field:   "placement",
			Message: "a destination is required (parent, before or after)",
		}
	}
	return application.ValidatePlacement(c.Placement)
}

// Execute runs the move command
func (c *MoveCommand) Execute(ctx context.Context) (*MoveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	res := &MoveResult{ID: c.ID}
	err := c.tree.Update(ctx, "move", func(ctx context.Context, u *engine.Unit) error {
		rec, err := u.GetRecord(ctx, c.ID)
		if err != nil {
			return err
		}
		res.To, err = u.ResolveUpdate(ctx, c.ID, rec.Bounds, c.Placement)
		if err != nil {
			return err
		}
		if rec.Bounds != nil {
			res.From = *rec.Bounds
		}
		return u.Records().UpdateOne(ctx, c.ID, domain.Set(res.To))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to move %s: %w", c.ID, err)
	}

	res.Message = fmt.Sprintf("Moved %s %s", c.ID, c.Placement)
	return res, nil
}

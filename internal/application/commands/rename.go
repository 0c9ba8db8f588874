package commands

import (
	"context"
	"fmt"
	"strings"

	"nestedset/internal/application"
	"nestedset/internal/engine"
)

// RenameResult contains the result of a rename operation
type RenameResult struct {
	ID       string
	OldLabel string
	NewLabel string
	Message  string
}

// RenameCommand changes a record's label. Its position is untouched.
type RenameCommand struct {
	tree  Tree
	ID    string
	Label string
}

// NewRenameCommand creates a new RenameCommand
func NewRenameCommand(tree Tree, id, label string) *RenameCommand {
	return &RenameCommand{
		tree:  tree,
		ID:    id,
		Label: strings.TrimSpace(label),
	}
}

// Validate checks if the rename operation is valid
func (c *RenameCommand) Validate() error {
	if err := application.ValidateID("id", c.ID); err != nil {
		return err
	}
	return application.ValidateRequired("label", c.Label)
}

// Execute runs the rename command
func (c *RenameCommand) Execute(ctx context.Context) (*RenameResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	res := &RenameResult{ID: c.ID, NewLabel: c.Label}
	err := c.tree.Update(ctx, "rename", func(ctx context.Context, u *engine.Unit) error {
		rec, err := u.GetRecord(ctx, c.ID)
		if err != nil {
			return err
		}
		res.OldLabel = rec.Label
		return u.Records().RenameRecord(ctx, c.ID, c.Label)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rename %s: %w", c.ID, err)
	}

	res.Message = fmt.Sprintf("Renamed %s: %s -> %s", c.ID, res.OldLabel, res.NewLabel)
	return res, nil
}

package commands

import (
	"context"
	"fmt"

	"nestedset/internal/application"
	"nestedset/internal/domain"
	"nestedset/internal/engine"
)

// CreateResult contains the result of creating a record
type CreateResult struct {
	Record  domain.Record
	Message string
}

// CreateCommand creates a record and positions it in the tree
type CreateCommand struct {
	tree      Tree
	Label     string
	Placement domain.Placement
}

// NewCreateCommand creates a new CreateCommand
func NewCreateCommand(tree Tree, label string, placement domain.Placement) *CreateCommand {
	return &CreateCommand{
		tree:      tree,
		Label:     label,
		Placement: placement,
	}
}

// Validate checks if the create operation is valid
func (c *CreateCommand) Validate() error {
	if err := application.ValidateRequired("label", c.Label); err != nil {
		return err
	}
	return application.ValidatePlacement(c.Placement)
}

// Execute runs the create command
func (c *CreateCommand) Execute(ctx context.Context) (*CreateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	rec := domain.Record{Label: c.Label}
	err := c.tree.Update(ctx, "create", func(ctx context.Context, u *engine.Unit) error {
		bounds, err := u.ResolveCreate(ctx, c.Placement)
		if err != nil {
			return err
		}
		rec.Bounds = &bounds
		rec.ID, err = u.Records().InsertRecord(ctx, c.Label, &bounds)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %q: %w", c.Label, err)
	}

	return &CreateResult{
		Record:  rec,
		Message: fmt.Sprintf("Created %s %s at %s", rec.ID, rec.Label, rec.Bounds),
	}, nil
}

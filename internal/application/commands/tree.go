// Package commands holds the use cases the CLI, MCP server and TUI share.
// Each command validates its input, runs in one unit of work on the tree
// and reports a result with a human readable message.
package commands

import (
	"context"

	"nestedset/internal/engine"
)

// Tree is the engine surface the commands drive.
type Tree interface {
	Update(ctx context.Context, op string, fn func(ctx context.Context, u *engine.Unit) error) error
	Queries() *engine.Queries
	Halted() bool
	Resume()
}

// Ensure engine.Tree satisfies Tree
var _ Tree = (*engine.Tree)(nil)

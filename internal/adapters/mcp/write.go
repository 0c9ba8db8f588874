package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"nestedset/internal/application/commands"
	"nestedset/internal/domain"
)

// RegisterWriteTools adds all write tree tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, tree commands.Tree) {
	s.AddTool(createTool(), createHandler(tree))
	s.AddTool(moveTool(), moveHandler(tree))
	s.AddTool(renameTool(), renameHandler(tree))
	s.AddTool(deleteTool(), deleteHandler(tree))
	s.AddTool(resumeTool(), resumeHandler(tree))
}

func placementOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("parent_id",
			mcp.Description("Place as last child of this record"),
		),
		mcp.WithString("before",
			mcp.Description("Place immediately before this record"),
		),
		mcp.WithString("after",
			mcp.Description("Place immediately after this record"),
		),
	}
}

func placement(req mcp.CallToolRequest) domain.Placement {
	return domain.Placement{
		ParentID:      req.GetString("parent_id", ""),
		PrevSiblingOf: req.GetString("before", ""),
		NextSiblingOf: req.GetString("after", ""),
	}
}

// --- create ---

func createTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Create a record. Give at most one of parent_id, before, after; with none the record becomes the root of an empty tree or the last child of the root."),
		mcp.WithString("label",
			mcp.Description("Label of the new record"),
			mcp.Required(),
		),
	}
	return mcp.NewTool("create", append(opts, placementOptions()...)...)
}

func createHandler(tree commands.Tree) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewCreateCommand(tree, req.GetString("label", ""), placement(req))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- move ---

func moveTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Move a record and its whole subtree. Give exactly one of parent_id, before, after. A record cannot move relative to itself or its descendants."),
		mcp.WithString("id",
			mcp.Description("Record ID to move"),
			mcp.Required(),
		),
	}
	return mcp.NewTool("move", append(opts, placementOptions()...)...)
}

func moveHandler(tree commands.Tree) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewMoveCommand(tree, req.GetString("id", ""), placement(req))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(fmt.Sprintf("%s: %s -> %s", result.Message, result.From, result.To)), nil
	}
}

// --- rename ---

func renameTool() mcp.Tool {
	return mcp.NewTool("rename",
		mcp.WithDescription("Change the label of a record. Its position is unchanged."),
		mcp.WithString("id",
			mcp.Description("Record ID to rename"),
			mcp.Required(),
		),
		mcp.WithString("label",
			mcp.Description("New label"),
			mcp.Required(),
		),
	)
}

func renameHandler(tree commands.Tree) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewRenameCommand(tree, req.GetString("id", ""), req.GetString("label", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete ---

func deleteTool() mcp.Tool {
	return mcp.NewTool("delete",
		mcp.WithDescription("Delete a record. Its children move up one level into its place."),
		mcp.WithString("id",
			mcp.Description("Record ID to delete"),
			mcp.Required(),
		),
	)
}

func deleteHandler(tree commands.Tree) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewDeleteCommand(tree, req.GetString("id", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- resume ---

func resumeTool() mcp.Tool {
	return mcp.NewTool("resume",
		mcp.WithDescription("Verify a tree halted by a failed rollback and accept writes again if it is consistent."),
	)
}

func resumeHandler(tree commands.Tree) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewResumeCommand(tree).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message), nil
	}
}

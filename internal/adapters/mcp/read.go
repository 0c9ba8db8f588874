// Package mcp exposes the tree as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"nestedset/internal/application/commands"
	"nestedset/internal/domain"
)

// RegisterReadTools adds all read-only tree tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, tree commands.Tree) {
	s.AddTool(listTool(), listHandler(tree))
	s.AddTool(treeTool(), treeHandler(tree))
	s.AddTool(showTool(), showHandler(tree))
	s.AddTool(verifyTool(), verifyHandler(tree))
}

// --- list ---

func listTool() mcp.Tool {
	return mcp.NewTool("list",
		mcp.WithDescription("List records in sibling order. Without arguments lists every record. Relation arguments narrow the result and combine with AND."),
		mcp.WithString("parent_of",
			mcp.Description("Record ID whose direct children to list"),
		),
		mcp.WithString("child_of",
			mcp.Description("Record ID whose parent to return"),
		),
		mcp.WithString("prev_sibling",
			mcp.Description("Record ID whose previous sibling to return"),
		),
		mcp.WithString("next_sibling",
			mcp.Description("Record ID whose next sibling to return"),
		),
		mcp.WithString("order",
			mcp.Description("asc (default) or desc"),
			mcp.Enum("asc", "desc"),
		),
	)
}

func listHandler(tree commands.Tree) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pred := domain.Predicate{
			ParentOf:      req.GetString("parent_of", ""),
			ChildOf:       req.GetString("child_of", ""),
			PrevSiblingID: req.GetString("prev_sibling", ""),
			NextSiblingID: req.GetString("next_sibling", ""),
		}

		result, err := commands.NewListCommand(tree, pred, req.GetString("order", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(result.Records, formatRecord)
	}
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display the hierarchy as an indented tree."),
		mcp.WithBoolean("bounds",
			mcp.Description("Include left, right and depth of every node"),
		),
	)
}

func treeHandler(tree commands.Tree) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		root, err := commands.NewBuildTreeCommand(tree).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if root == nil {
			return mcp.NewToolResultText("Tree is empty."), nil
		}
		var sb strings.Builder
		renderTree(&sb, root, "", req.GetBool("bounds", false))
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderTree(sb *strings.Builder, node *domain.TreeNode, prefix string, bounds bool) {
	if bounds {
		fmt.Fprintf(sb, "%s%s %s %s\n", prefix, node.ID, node.Label, node.Bounds)
	} else {
		fmt.Fprintf(sb, "%s%s %s\n", prefix, node.ID, node.Label)
	}
	for _, child := range node.Children {
		renderTree(sb, child, prefix+"  ", bounds)
	}
}

// --- show ---

func showTool() mcp.Tool {
	return mcp.NewTool("show",
		mcp.WithDescription("Show a record with its bounds, weight, parent, ancestors, children and siblings."),
		mcp.WithString("id",
			mcp.Description("Record ID"),
			mcp.Required(),
		),
		mcp.WithBoolean("subtree",
			mcp.Description("Also list every descendant with its bounds"),
		),
	)
}

func showHandler(tree commands.Tree) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewShowCommand(tree, req.GetString("id", ""))
		cmd.WithSubtree = req.GetBool("subtree", false)
		res, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintln(&sb, formatRecord(res.Record))
		if res.Record.Bounds == nil {
			return mcp.NewToolResultText(sb.String()), nil
		}
		fmt.Fprintf(&sb, "weight: %d\n", res.Weight)
		fmt.Fprintf(&sb, "leaf: %t\n", res.Leaf)
		if res.Parent != nil {
			fmt.Fprintf(&sb, "parent: %s\n", res.Parent.ID)
		}
		ids := make([]string, len(res.Ancestors))
		for i, a := range res.Ancestors {
			ids[i] = a.ID
		}
		fmt.Fprintf(&sb, "ancestors: %s\n", strings.Join(ids, " > "))
		ids = ids[:0]
		for _, c := range res.Children {
			ids = append(ids, c.ID)
		}
		fmt.Fprintf(&sb, "children: %s\n", strings.Join(ids, ", "))
		ids = ids[:0]
		for _, s := range res.Siblings {
			ids = append(ids, s.ID)
		}
		fmt.Fprintf(&sb, "siblings: %s\n", strings.Join(ids, ", "))
		fmt.Fprintf(&sb, "descendants: %d\n", res.Descendants)
		for _, n := range res.Subtree {
			fmt.Fprintf(&sb, "  %s %s\n", n.ID, n.Bounds)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- verify ---

func verifyTool() mcp.Tool {
	return mcp.NewTool("verify",
		mcp.WithDescription("Check every nested-set invariant and list the violations found."),
	)
}

func verifyHandler(tree commands.Tree) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := commands.NewVerifyCommand(tree).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if res.OK() && len(res.Unpositioned) == 0 {
			return mcp.NewToolResultText(res.Message), nil
		}
		var sb strings.Builder
		fmt.Fprintln(&sb, res.Message)
		for _, v := range res.Violations {
			fmt.Fprintln(&sb, v)
		}
		for _, r := range res.Unpositioned {
			fmt.Fprintln(&sb, formatRecord(r))
		}
		if res.OK() {
			return mcp.NewToolResultText(sb.String()), nil
		}
		return mcp.NewToolResultError(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatRecord(r domain.Record) string {
	if r.Bounds == nil {
		return fmt.Sprintf("%s  %s  (unpositioned)", r.ID, r.Label)
	}
	return fmt.Sprintf("%s  %s  %s", r.ID, r.Label, r.Bounds)
}

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"nestedset/internal/application"
	"nestedset/internal/application/commands"
)

var treeBounds bool

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Display the tree structure",
	Long: `Display the complete tree structure.

Example:
  nestedset-cli tree --bounds`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := commands.NewBuildTreeCommand(GetTree()).Execute(cmd.Context())
		if err != nil {
			return err
		}
		if root == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "(empty)")
			return nil
		}
		printTree(cmd.OutOrStdout(), root, 0)
		return nil
	},
}

func printTree(w io.Writer, node *application.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	if treeBounds {
		fmt.Fprintf(w, "%s%s %s %s\n", indent, node.ID, node.Label, node.Bounds)
	} else {
		fmt.Fprintf(w, "%s%s %s\n", indent, node.ID, node.Label)
	}

	for _, child := range node.Children {
		printTree(w, child, depth+1)
	}
}

func init() {
	treeCmd.Flags().BoolVarP(&treeBounds, "bounds", "b", false, "print left, right and depth")
	rootCmd.AddCommand(treeCmd)
}

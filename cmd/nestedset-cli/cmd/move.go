package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"nestedset/internal/application/commands"
)

var movePlacement placementFlags

var moveCmd = &cobra.Command{
	Use:   "move <id> (--parent|--before|--after) <anchor-id>",
	Short: "Move a record and its subtree",
	Long: `Move a record, together with all its descendants, to a new position.

A record cannot be moved relative to itself or one of its descendants, and
the root has no siblings.

Examples:
  nestedset-cli move <id> --parent <new-parent-id>
  nestedset-cli move <id> --before <sibling-id>`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mv := commands.NewMoveCommand(GetTree(), args[0], movePlacement.placement())
		result, err := mv.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", result.Message, result.From, result.To)
		return nil
	},
}

func init() {
	movePlacement.register(moveCmd)
	rootCmd.AddCommand(moveCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"nestedset/internal/application/commands"
)

var addPlacement placementFlags

var addCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Add a record to the tree",
	Long: `Add a record and position it in the tree.

Without a placement flag the record becomes the root of an empty tree, or
the last child of the existing root.

Examples:
  nestedset-cli add "Books"
  nestedset-cli add "Fiction" --parent <books-id>
  nestedset-cli add "Essays" --after <fiction-id>`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		createCmd := commands.NewCreateCommand(GetTree(), args[0], addPlacement.placement())
		result, err := createCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	addPlacement.register(addCmd)
	rootCmd.AddCommand(addCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"nestedset/internal/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a record",
	Long: `Delete a record from the tree. Its children are kept: they move up
one level and take its place under its parent.

The root can only be deleted once it has no children.

Examples:
  nestedset-cli delete <id>`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deleteCmd := commands.NewDeleteCommand(GetTree(), args[0])
		result, err := deleteCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <id> <label>",
	Short: "Change a record's label",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewRenameCommand(GetTree(), args[0], args[1]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(renameCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"nestedset/internal/application/commands"
	"nestedset/internal/domain"
)

var initCmd = &cobra.Command{
	Use:   "init [root-label]",
	Short: "Create the list table and optionally its root",
	Long: `Create the database, the list table and the hierarchy field columns
if they do not exist yet. With a label, also create the root record of an
empty tree.

Examples:
  nestedset-cli init
  nestedset-cli init "Catalog" --list categories`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfg := env.Config
		fmt.Fprintf(out, "Initialized %s.%s (%s)\n", cfg.List, cfg.Field, cfg.Driver)
		if len(args) == 0 {
			return nil
		}

		root, err := GetTree().Queries().GetRoot(cmd.Context())
		if err != nil {
			return err
		}
		if root != nil {
			return fmt.Errorf("tree already has root %s", root.ID)
		}
		result, err := commands.NewCreateCommand(GetTree(), args[0], domain.Placement{}).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

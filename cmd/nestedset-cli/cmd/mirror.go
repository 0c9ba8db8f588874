package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"nestedset/internal/adapters/filesystem"
)

var (
	importPlacement placementFlags
	importOpts      filesystem.ImportOptions
	exportID        string
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import a directory hierarchy as a subtree",
	Long: `Import a directory and everything below it. Each directory becomes a
node and its entries become children in name order. Hidden entries are
skipped. The whole import is one transaction.

Examples:
  nestedset-cli import ~/projects
  nestedset-cli import ./export/"01 Books" --trim-order --parent <id>`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := filesystem.NewRepository(args[0])
		res, err := repo.Import(cmd.Context(), GetTree(), importPlacement.placement(), importOpts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d nodes from %s as %s\n", res.Created, repo.Path(), res.RootID)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write the tree as a directory hierarchy",
	Long: `Create one directory per node below <dir>, named "NN label" so that
a sorted listing keeps sibling order. Existing directories are not
overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := filesystem.NewRepository(args[0])
		n, err := repo.Export(cmd.Context(), GetTree(), exportID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d nodes to %s\n", n, repo.Path())
		return nil
	},
}

func init() {
	importPlacement.register(importCmd)
	importCmd.Flags().BoolVar(&importOpts.Files, "files", false, "import regular files as leaves")
	importCmd.Flags().BoolVar(&importOpts.TrimOrder, "trim-order", false, `strip a leading "NN " from names`)
	exportCmd.Flags().StringVar(&exportID, "id", "", "export only the subtree at this id")
	rootCmd.AddCommand(importCmd, exportCmd)
}

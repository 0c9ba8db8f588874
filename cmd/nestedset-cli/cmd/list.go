package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"nestedset/internal/application/commands"
	"nestedset/internal/domain"
)

var (
	listPredicate domain.Predicate
	listDesc      bool
	listJSON      bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records by relation",
	Long: `List the records of the tree in sibling order. Relation flags narrow
the result and combine with AND.

Examples:
  nestedset-cli list
  nestedset-cli list --parent-of <id>      # direct children of id
  nestedset-cli list --child-of <id>       # parent of id
  nestedset-cli list --next-sibling <id> --desc`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		direction := "asc"
		if listDesc {
			direction = "desc"
		}
		result, err := commands.NewListCommand(GetTree(), listPredicate, direction).Execute(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if listJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result.Records)
		}
		for _, r := range result.Records {
			if r.Bounds == nil {
				fmt.Fprintf(out, "%s %s (unpositioned)\n", r.ID, r.Label)
				continue
			}
			fmt.Fprintf(out, "%s %s %s\n", r.ID, r.Label, r.Bounds)
		}
		return nil
	},
}

func init() {
	f := listCmd.Flags()
	f.StringVar(&listPredicate.ChildOf, "child-of", "", "records that id is a child of")
	f.StringVar(&listPredicate.ParentOf, "parent-of", "", "records that id is the parent of")
	f.StringVar(&listPredicate.PrevSiblingID, "prev-sibling", "", "record immediately before id")
	f.StringVar(&listPredicate.NextSiblingID, "next-sibling", "", "record immediately after id")
	f.BoolVar(&listDesc, "desc", false, "reverse sibling order")
	f.BoolVar(&listJSON, "json", false, "print records as JSON")
	rootCmd.AddCommand(listCmd)
}

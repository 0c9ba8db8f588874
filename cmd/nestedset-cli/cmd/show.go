package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nestedset/internal/application/commands"
)

var showSubtree bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a record and its relations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		show := commands.NewShowCommand(GetTree(), args[0])
		show.WithSubtree = showSubtree
		res, err := show.Execute(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:          %s\n", res.Record.ID)
		fmt.Fprintf(out, "Label:       %s\n", res.Record.Label)
		if res.Record.Bounds == nil {
			fmt.Fprintln(out, "Position:    (unpositioned)")
			return nil
		}
		b := res.Record.Bounds
		fmt.Fprintf(out, "Bounds:      left=%d right=%d depth=%d\n", b.Left, b.Right, b.Depth)
		fmt.Fprintf(out, "Weight:      %d\n", res.Weight)
		fmt.Fprintf(out, "Leaf:        %t\n", res.Leaf)
		if res.Parent != nil {
			fmt.Fprintf(out, "Parent:      %s\n", res.Parent.ID)
		} else {
			fmt.Fprintln(out, "Parent:      (root)")
		}
		fmt.Fprintf(out, "Ancestors:   %d\n", len(res.Ancestors))
		fmt.Fprintf(out, "Children:    %d\n", len(res.Children))
		fmt.Fprintf(out, "Siblings:    %d\n", len(res.Siblings))
		fmt.Fprintf(out, "Descendants: %d\n", res.Descendants)
		for _, n := range res.Subtree {
			fmt.Fprintf(out, "  %s%s %s\n", strings.Repeat("  ", n.Depth-b.Depth-1), n.ID, n.Bounds)
		}
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check every tree invariant",
	Long: `Read the whole tree and check that bounds are unique and gap-free,
intervals nest properly, depths match the ancestor count and there is
exactly one root.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := commands.NewVerifyCommand(GetTree()).Execute(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, v := range res.Violations {
			fmt.Fprintln(out, v)
		}
		for _, r := range res.Unpositioned {
			fmt.Fprintf(out, "unpositioned: %s %s\n", r.ID, r.Label)
		}
		if !res.OK() {
			return errors.New(res.Message)
		}
		fmt.Fprintln(out, res.Message)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showSubtree, "subtree", false, "also list every descendant")
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(verifyCmd)
}

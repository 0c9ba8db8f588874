package cmd

import (
	"github.com/spf13/cobra"

	"nestedset/internal/domain"
)

// placementFlags binds --parent, --before and --after to a command.
type placementFlags struct {
	parent, before, after string
}

func (p *placementFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.parent, "parent", "p", "", "place as last child of this id")
	cmd.Flags().StringVar(&p.before, "before", "", "place immediately before this id")
	cmd.Flags().StringVar(&p.after, "after", "", "place immediately after this id")
	cmd.MarkFlagsMutuallyExclusive("parent", "before", "after")
}

func (p *placementFlags) placement() domain.Placement {
	return domain.Placement{
		ParentID:      p.parent,
		PrevSiblingOf: p.before,
		NextSiblingOf: p.after,
	}
}

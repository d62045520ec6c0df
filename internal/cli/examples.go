package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/treepack/internal/importer"
	"github.com/piwi3910/treepack/internal/model"
	"github.com/piwi3910/treepack/internal/packerr"
)

func newExamplesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "examples [name]",
		Short: "List block sets, or print one as a text block list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadLibrary()
			if err != nil {
				return err
			}
			p := printer{w: cmd.OutOrStdout()}

			if len(args) == 0 {
				p.title("Built-in")
				listSets(p, model.Examples)
				if len(store.Sets) > 0 {
					p.title("Saved")
					listSets(p, store.Sets)
				}
				return nil
			}

			bs, ok := model.GetExample(args[0])
			if !ok {
				found := store.FindByName(args[0])
				if found == nil {
					return packerr.New(packerr.ErrCodeNotFound, "no example or saved block set named %q", args[0])
				}
				bs = *found
			}
			fmt.Fprint(cmd.OutOrStdout(), importer.FormatText(bs.Specs))
			return nil
		},
	}
}

func listSets(p printer, sets []model.BlockSet) {
	for _, bs := range sets {
		p.keyValue(bs.Name, fmt.Sprintf("%d blocks  %s", bs.Count(), bs.Description))
	}
}

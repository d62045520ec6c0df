package cli

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/treepack/internal/model"
	"github.com/piwi3910/treepack/internal/packerr"
	"github.com/piwi3910/treepack/internal/project"
)

func newSetsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sets",
		Short: "Manage saved block sets",
	}
	cmd.AddCommand(newSetsSaveCmd(a))
	cmd.AddCommand(newSetsRemoveCmd(a))
	return cmd
}

func newSetsSaveCmd(a *app) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "save <name> <file|->",
		Short: "Import a block list and save it under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if _, ok := model.GetExample(name); ok {
				return packerr.New(packerr.ErrCodeInvalidInput, "%q is a built-in example name", name)
			}
			in, err := a.loadInput(cmd, args[1:], "")
			if err != nil {
				return err
			}
			store, err := a.loadLibrary()
			if err != nil {
				return err
			}

			bs := model.NewBlockSet(name, description, in.Specs)
			if existing := store.FindByName(name); existing != nil {
				bs.ID = existing.ID
				bs.CreatedAt = existing.CreatedAt
				*existing = bs
			} else {
				store.Add(bs)
			}

			if err := project.SaveBlockSets(a.libraryPath(), store); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.success("saved %s (%d blocks)", name, bs.Count())
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "description shown by examples")
	return cmd
}

func newSetsRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a saved block set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadLibrary()
			if err != nil {
				return err
			}
			bs := store.FindByName(args[0])
			if bs == nil || !store.Remove(bs.ID) {
				return packerr.New(packerr.ErrCodeNotFound, "no saved block set named %q", args[0])
			}
			if err := project.SaveBlockSets(a.libraryPath(), store); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.success("removed %s", args[0])
			return nil
		},
	}
}

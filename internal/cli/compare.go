package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/treepack/internal/engine"
)

type compareOpts struct {
	settingsFlags
	example string
	orders  string
}

func newCompareCmd(a *app) *cobra.Command {
	var opts compareOpts

	cmd := &cobra.Command{
		Use:   "compare [file|-]",
		Short: "Pack a block list with every sort order and rank the results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, a, args, &opts)
		},
	}

	opts.settingsFlags.register(cmd, false)
	cmd.Flags().StringVarP(&opts.example, "example", "e", "", "compare a built-in example or saved block set")
	cmd.Flags().StringVar(&opts.orders, "orders", "", "orders to compare, comma-separated (default: all)")

	return cmd
}

func runCompare(cmd *cobra.Command, a *app, args []string, opts *compareOpts) error {
	logger := loggerFromContext(cmd.Context())

	in, err := a.loadInput(cmd, args, opts.example)
	if err != nil {
		return err
	}
	base := a.defaultSettings()
	if in.Settings != nil {
		base = *in.Settings
	}
	settings, err := opts.resolve(cmd, base)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	results, err := engine.CompareOrders(settings, in.Specs, splitList(opts.orders), engine.WithLogger(logger))
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Compared %d orders", len(results)))

	best := engine.Best(results)
	w := cmd.OutOrStdout()
	p := printer{w: w}
	p.title(fmt.Sprintf("%-3s %-10s %-14s %6s %6s", "", "ORDER", "CONTAINER", "FILL", "UNFIT"))
	for i, c := range results {
		mark := ""
		if i == best {
			mark = "*"
		}
		fmt.Fprintf(w, "%-3s %-10s %-14s %5.1f%% %6d\n", mark, c.Order, formatSize(c.Container), c.FillRatio, c.UnfitCount)
	}
	if best >= 0 {
		p.success("best order: %s", results[best].Order)
	}
	return nil
}

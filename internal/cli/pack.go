package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/treepack/internal/engine"
	"github.com/piwi3910/treepack/internal/export"
	"github.com/piwi3910/treepack/internal/model"
	"github.com/piwi3910/treepack/internal/order"
	"github.com/piwi3910/treepack/internal/packerr"
	"github.com/piwi3910/treepack/internal/project"
)

// Output formats accepted by --format.
const (
	formatSVG    = "svg"
	formatPNG    = "png"
	formatPDF    = "pdf"
	formatLabels = "labels"
	formatXLSX   = "xlsx"
	formatDXF    = "dxf"
	formatJSON   = "json"
)

var validFormats = []string{formatSVG, formatPNG, formatPDF, formatLabels, formatXLSX, formatDXF, formatJSON}

type packOpts struct {
	settingsFlags
	example     string
	formats     string
	output      string
	regions     bool
	scale       float64
	search      bool
	generations int
	save        string
}

func newPackCmd(a *app) *cobra.Command {
	var opts packOpts

	cmd := &cobra.Command{
		Use:   "pack [file|-]",
		Short: "Pack a block list and write the layout",
		Long: `Pack reads a block list (text "WxHxNUMxTYPE" lines, CSV, XLSX, DXF or a saved
project), places every block and writes the layout in the requested formats.

Without --size the container grows as needed; with --size WxH blocks that do
not fit are reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, a, args, &opts)
		},
	}

	opts.settingsFlags.register(cmd, true)
	cmd.Flags().StringVarP(&opts.example, "example", "e", "", "pack a built-in example or saved block set")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s), comma-separated: "+strings.Join(validFormats, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: input name)")
	cmd.Flags().BoolVar(&opts.regions, "regions", true, "outline every partition region")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "scale factor for SVG and PNG output")
	cmd.Flags().BoolVar(&opts.search, "search", false, "search for a better block order with a genetic algorithm")
	cmd.Flags().IntVar(&opts.generations, "generations", 0, "order search generations (default scales with block count)")
	cmd.Flags().StringVar(&opts.save, "save", "", "save the block list, settings and result as a project file")

	return cmd
}

func runPack(cmd *cobra.Command, a *app, args []string, opts *packOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

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
	if !opts.search && !order.Valid(settings.Order) {
		return packerr.New(packerr.ErrCodeInvalidOrder, "unknown order %q (valid: %s)",
			settings.Order, strings.Join(order.Names(), ", "))
	}

	formats := a.config.OutputFormats
	if cmd.Flags().Changed("format") {
		formats = splitList(opts.formats)
	}
	if err := validateFormats(formats); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	prog := newProgress(logger)
	result, err := pack(settings, in.Specs, opts, logger)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Packed %d blocks", len(result.Blocks)))

	if violations := engine.Verify(result); len(violations) > 0 {
		for _, msg := range engine.FormatViolations(result, violations) {
			logger.Error(msg)
		}
		return packerr.New(packerr.ErrCodeInternal, "layout check failed with %d violations", len(violations))
	}

	printReport(printer{w: cmd.OutOrStdout()}, result)

	outBase := opts.output
	if outBase == "" {
		outBase = in.Base
	}
	showRegions := a.config.ShowRegions
	if cmd.Flags().Changed("regions") {
		showRegions = opts.regions
	}
	renderOpts := []export.Option{
		export.WithPalette(a.config.Palette),
		export.WithRegions(showRegions),
		export.WithScale(opts.scale),
	}

	p := printer{w: cmd.OutOrStdout()}
	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return err
		}
		path, err := writeOutput(format, outBase, result, renderOpts)
		if err != nil {
			return err
		}
		logger.Debug("wrote output", "format", format, "path", path)
		p.file(path)
	}

	if opts.save != "" {
		return a.saveProject(cmd, opts.save, in, settings, result)
	}
	return nil
}

func pack(settings model.PackSettings, specs []model.BlockSpec, opts *packOpts, logger *log.Logger) (model.PackResult, error) {
	if !opts.search {
		return engine.New(settings, engine.WithLogger(logger)).Optimize(specs)
	}

	n := 0
	for _, s := range specs {
		if s.Num > 0 {
			n += s.Num
		}
	}
	config := engine.ScaledGeneticConfig(n)
	config.Seed = settings.Seed
	if opts.generations > 0 {
		config.Generations = opts.generations
	}
	logger.Info("searching block order", "blocks", n, "generations", config.Generations)
	return engine.SearchOrder(settings, specs, config, engine.WithLogger(logger))
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		ok := false
		for _, v := range validFormats {
			if f == v {
				ok = true
				break
			}
		}
		if !ok {
			return packerr.New(packerr.ErrCodeUnsupported, "invalid format %q (valid: %s)",
				f, strings.Join(validFormats, ", "))
		}
	}
	return nil
}

// writeOutput writes result in one format and returns the file path.
func writeOutput(format, base string, result model.PackResult, opts []export.Option) (string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}

	path := base + "." + format
	var err error
	switch format {
	case formatSVG:
		err = os.WriteFile(path, export.RenderSVG(result, opts...), 0644)
	case formatPNG:
		var data []byte
		if data, err = export.RenderPNG(result, opts...); err == nil {
			err = os.WriteFile(path, data, 0644)
		}
	case formatPDF:
		err = export.ExportPDF(path, result, opts...)
	case formatLabels:
		path = base + "-labels.pdf"
		err = export.ExportLabels(path, result)
	case formatXLSX:
		err = export.ExportXLSX(path, result)
	case formatDXF:
		err = export.ExportDXF(path, result)
	case formatJSON:
		err = export.ExportJSONFile(path, result)
	default:
		return "", packerr.New(packerr.ErrCodeUnsupported, "invalid format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// printReport prints the container, the fill ratio and the unfit blocks.
func printReport(p printer, result model.PackResult) {
	rep := model.BuildReport(result)

	kind := "fixed"
	if result.Growing {
		kind = "automatic"
	}
	p.title(fmt.Sprintf("Packed %d blocks", rep.Total))
	p.keyValue("Container", fmt.Sprintf("%s (%s)", formatSize(rep.Container), kind))
	if result.Order != "" {
		p.keyValue("Order", result.Order)
	}
	p.keyValue("Placed", styleNumber.Render(fmt.Sprintf("%d/%d", rep.Placed, rep.Total)))
	p.keyValue("Fill ratio", styleNumber.Render(fmt.Sprintf("%g%%", rep.FillRatio)))
	if rep.AllFit() {
		p.success("all blocks fit")
		return
	}
	p.warning("%d blocks did not fit: %s", rep.Unfit, strings.Join(rep.UnfitSizes, ", "))
}

func (a *app) saveProject(cmd *cobra.Command, path string, in input, settings model.PackSettings, result model.PackResult) error {
	path = project.ProjectPath(path)
	proj := model.NewProject()
	proj.Name = in.Base
	proj.Specs = in.Specs
	proj.Settings = settings
	proj.Result = &result

	if err := project.Save(path, proj); err != nil {
		return err
	}
	printer{w: cmd.OutOrStdout()}.file(path)

	project.AddRecentProject(&a.config, path, 10)
	if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
		loggerFromContext(cmd.Context()).Warn("could not update recent projects", "err", err)
	}
	return nil
}

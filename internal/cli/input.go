package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/treepack/internal/importer"
	"github.com/piwi3910/treepack/internal/model"
	"github.com/piwi3910/treepack/internal/order"
	"github.com/piwi3910/treepack/internal/packerr"
	"github.com/piwi3910/treepack/internal/project"
)

// input is a loaded block list. Base names the default output files.
type input struct {
	Specs    []model.BlockSpec
	Base     string
	Settings *model.PackSettings // set when the input was a project file
}

// settingsFlags are the packing options shared by pack and compare.
type settingsFlags struct {
	size  string
	order string
	seed  int64
}

func (f *settingsFlags) register(cmd *cobra.Command, withOrder bool) {
	cmd.Flags().StringVarP(&f.size, "size", "s", "", "container size: automatic or WxH (default from config)")
	if withOrder {
		cmd.Flags().StringVar(&f.order, "order", "", "sort order: "+strings.Join(order.Names(), ", "))
	}
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "seed for the random order and the order search")
}

// resolve layers changed flags over base, which is either the configured
// defaults or a project's saved settings.
func (f settingsFlags) resolve(cmd *cobra.Command, base model.PackSettings) (model.PackSettings, error) {
	s := base
	if cmd.Flags().Changed("size") {
		size, err := model.ParseContainerSize(f.size)
		if err != nil {
			return s, packerr.Wrap(packerr.ErrCodeInvalidInput, err, "invalid --size")
		}
		s.Size = size
	}
	if cmd.Flags().Changed("order") {
		s.Order = f.order
	}
	if cmd.Flags().Changed("seed") {
		s.Seed = f.seed
	}
	return s, nil
}

// defaultSettings applies the app config to model.DefaultSettings().
func (a *app) defaultSettings() model.PackSettings {
	s := model.DefaultSettings()
	a.config.ApplyToSettings(&s)
	return s
}

// loadInput reads a block list from an example or saved set name, stdin
// ("-"), a project file or any importable file.
func (a *app) loadInput(cmd *cobra.Command, args []string, example string) (input, error) {
	logger := loggerFromContext(cmd.Context())

	if example != "" {
		if bs, ok := model.GetExample(example); ok {
			return input{Specs: bs.Specs, Base: bs.Name}, nil
		}
		store, err := a.loadLibrary()
		if err != nil {
			return input{}, err
		}
		if bs := store.FindByName(example); bs != nil {
			return input{Specs: bs.Specs, Base: bs.Name}, nil
		}
		return input{}, packerr.New(packerr.ErrCodeNotFound, "no example or saved block set named %q", example)
	}

	if len(args) == 0 {
		return input{}, packerr.New(packerr.ErrCodeInvalidInput,
			"no input: pass a block list file, - for stdin, or --example")
	}
	path := args[0]

	var res importer.ImportResult
	base := "treepack"
	switch {
	case path == "-":
		res = importer.ImportTextFromReader(cmd.InOrStdin())
	case strings.HasSuffix(strings.ToLower(path), project.FileExtension):
		proj, err := project.Load(path)
		if err != nil {
			return input{}, err
		}
		logger.Debug("loaded project", "name", proj.Name, "specs", len(proj.Specs))
		settings := proj.Settings
		return input{Specs: proj.Specs, Base: outputBase(path), Settings: &settings}, nil
	default:
		if _, err := os.Stat(path); err != nil {
			return input{}, packerr.Wrap(packerr.ErrCodeFileNotFound, err, "cannot read %s", path)
		}
		res = importer.ImportFile(path)
		base = outputBase(path)
	}

	for _, w := range res.Warnings {
		logger.Warn(w)
	}
	if res.HasErrors() {
		return input{}, packerr.New(packerr.ErrCodeInvalidFormat, "%s: %s", path, strings.Join(res.Errors, "; "))
	}
	logger.Debug("imported block list", "path", path, "specs", len(res.Specs))
	return input{Specs: res.Specs, Base: base}, nil
}

// outputBase strips the directory and every extension from path.
func outputBase(path string) string {
	name := filepath.Base(path)
	if i := strings.Index(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func formatSize(r model.Rect) string {
	return fmt.Sprintf("%gx%g", r.W, r.H)
}

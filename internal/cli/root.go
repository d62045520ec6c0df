// Package cli implements the treepack command-line interface.
//
// # Commands
//
//   - pack: pack a block list and write pictures, reports and drawings
//   - compare: pack the same list with every sort order and rank them
//   - examples: list or print the built-in and saved block sets
//   - sets: manage the saved block-set library
//   - config: show and edit the TOML configuration, back it up and restore it
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which includes
// one line per placed block and per container growth. Loggers are passed
// through context.Context.
package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/treepack/internal/model"
	"github.com/piwi3910/treepack/internal/project"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// app holds state shared by every command.
type app struct {
	configPath string
	verbose    bool
	config     model.AppConfig
}

// libraryPath is the block-set library next to the config file.
func (a *app) libraryPath() string {
	return filepath.Join(filepath.Dir(a.configPath), "blocksets.json")
}

func (a *app) loadLibrary() (model.BlockSetStore, error) {
	store, err := project.LoadBlockSets(a.libraryPath())
	if err != nil {
		return model.BlockSetStore{}, fmt.Errorf("load block sets: %w", err)
	}
	return store, nil
}

// Execute runs the treepack CLI. Cancelling ctx stops long operations
// between steps.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the root command with every subcommand registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "treepack",
		Short:        "treepack packs rectangles into a container",
		Long:         `treepack places rectangular blocks into a fixed or automatically growing container using a binary-tree packer, and renders the result as SVG, PNG, PDF, XLSX, DXF or JSON.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if a.verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, logger))

			cfg, err := project.LoadAppConfig(a.configPath)
			if err != nil {
				return fmt.Errorf("load config %s: %w", a.configPath, err)
			}
			a.config = cfg
			logger.Debug("loaded config", "path", a.configPath)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("treepack %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", project.DefaultConfigPath(), "config file")

	root.AddCommand(newPackCmd(a))
	root.AddCommand(newCompareCmd(a))
	root.AddCommand(newExamplesCmd(a))
	root.AddCommand(newSetsCmd(a))
	root.AddCommand(newConfigCmd(a))

	return root
}

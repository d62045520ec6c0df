package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/piwi3910/treepack/internal/model"
	"github.com/piwi3910/treepack/internal/order"
	"github.com/piwi3910/treepack/internal/packerr"
	"github.com/piwi3910/treepack/internal/project"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and edit the configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.configPath)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(a.config)
		},
	})
	cmd.AddCommand(newConfigSetCmd(a))
	cmd.AddCommand(newConfigExportCmd(a))
	cmd.AddCommand(newConfigImportCmd(a))
	return cmd
}

// configSetters validate and apply one config key each.
var configSetters = map[string]func(c *model.AppConfig, v string) error{
	"default_size": func(c *model.AppConfig, v string) error {
		size, err := model.ParseContainerSize(v)
		if err != nil {
			return err
		}
		c.DefaultSize = size.String()
		return nil
	},
	"default_order": func(c *model.AppConfig, v string) error {
		if !order.Valid(v) {
			return packerr.New(packerr.ErrCodeInvalidOrder, "unknown order %q", v)
		}
		c.DefaultOrder = v
		return nil
	},
	"default_seed": func(c *model.AppConfig, v string) error {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		c.DefaultSeed = seed
		return nil
	},
	"show_regions": func(c *model.AppConfig, v string) error {
		show, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.ShowRegions = show
		return nil
	},
	"output_formats": func(c *model.AppConfig, v string) error {
		formats := splitList(v)
		if err := validateFormats(formats); err != nil {
			return err
		}
		c.OutputFormats = formats
		return nil
	},
	"palette": func(c *model.AppConfig, v string) error {
		colors := splitList(v)
		if len(colors) == 0 {
			return packerr.New(packerr.ErrCodeInvalidInput, "palette needs at least one color")
		}
		c.Palette = colors
		return nil
	},
}

func configKeys() []string {
	keys := make([]string, 0, len(configSetters))
	for k := range configSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value (" + strings.Join(configKeys(), ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, ok := configSetters[args[0]]
			if !ok {
				return packerr.New(packerr.ErrCodeInvalidInput, "unknown config key %q (valid: %s)",
					args[0], strings.Join(configKeys(), ", "))
			}
			if err := set(&a.config, args[1]); err != nil {
				return packerr.Wrap(packerr.ErrCodeInvalidInput, err, "invalid value for %s", args[0])
			}
			if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			printer{w: cmd.OutOrStdout()}.success("%s = %s", args[0], args[1])
			return nil
		},
	}
}

func newConfigExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Back up the config and saved block sets to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadLibrary()
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], a.config, store); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.file(args[0])
			return nil
		},
	}
}

func newConfigImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore the config and saved block sets from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return packerr.Wrap(packerr.ErrCodeFileNotFound, err, "cannot read %s", args[0])
			}
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			a.config = backup.Config
			if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			if err := project.SaveBlockSets(a.libraryPath(), backup.BlockSets); err != nil {
				return fmt.Errorf("save block sets: %w", err)
			}
			printer{w: cmd.OutOrStdout()}.success("restored config and %d block sets from %s",
				len(backup.BlockSets.Sets), backup.CreatedAt)
			return nil
		},
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mrxxx66/modpack/internal/config"
)

// newConfigCommand creates the `modpack config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage modpack configuration",
		Long: `Manage modpack configuration.

Configuration is read from the first file found:
  - the --config flag
  - ./modpack.cue
  - Linux: ~/.config/modpack/config.cue
  - macOS: ~/Library/Application Support/modpack/config.cue
  - Windows: %APPDATA%\modpack\config.cue

Every key can also be overridden with a MODPACK_* environment variable,
e.g. MODPACK_OUTPUT_DIR or MODPACK_UI_VERBOSE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	var local bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, app, local)
		},
	}
	initCmd.Flags().BoolVar(&local, "local", false, "write ./"+config.LocalConfigFile+" instead of the user config file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App) error {
	loaded, err := app.loadConfig(cmd.Context())
	if err != nil {
		return app.fail(cmd, err, app.verbose)
	}

	stdout := cmd.OutOrStdout()
	fmt.Fprintln(stdout, sectionTitleStyle.Render("Current Configuration"))

	source := SubtitleStyle.Render("(using defaults)")
	if loaded.Path != "" {
		source = pathStyle.Render(loaded.Path)
	}
	fmt.Fprintf(stdout, "%s: %s\n\n", CmdStyle.Render("Config file"), source)
	fmt.Fprint(stdout, config.GenerateCUE(loaded.Config))

	return nil
}

func initConfig(cmd *cobra.Command, app *App, local bool) error {
	path := config.LocalConfigFile
	if !local {
		dir, err := config.ConfigDir()
		if err != nil {
			return app.fail(cmd, err, app.verbose)
		}
		path = filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt)
	}

	written, err := config.CreateDefaultConfig(path)
	if err != nil {
		return app.fail(cmd, err, app.verbose)
	}

	stdout := cmd.OutOrStdout()
	if !written {
		fmt.Fprintf(stdout, "%s Configuration already exists at %s\n", warningIcon, pathStyle.Render(path))
		return nil
	}
	fmt.Fprintf(stdout, "%s Created default configuration at %s\n", successIcon, pathStyle.Render(path))

	return nil
}

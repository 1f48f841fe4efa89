// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mrxxx66/modpack/internal/config"
	"github.com/mrxxx66/modpack/internal/issue"
	"github.com/mrxxx66/modpack/pkg/fspath"
	"github.com/mrxxx66/modpack/pkg/modpack"
	"github.com/mrxxx66/modpack/pkg/types"
)

// newPackCommand creates the `modpack pack` command.
func newPackCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pack",
		Short: "Normalize scripts and build the module archive",
		Long: `Normalize the line endings of every script in the module tree, check the
scripts for syntax problems, then package the tree into a ZIP archive.

The archive is named <product>-v<version>.zip after the version= line of
module.prop. When no version can be read it falls back to
<product>_<YYYYMMDD_HHMMSS>.zip.

Examples:
  modpack pack
  modpack pack --config ./release.cue`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, app)
		},
	}
}

func runPack(cmd *cobra.Command, app *App) error {
	loaded, err := app.loadConfig(cmd.Context())
	if err != nil {
		return app.fail(cmd, err, app.verbose)
	}
	cfg := loaded.Config
	verbose := app.isVerbose(cfg)
	logger := app.logger(cmd.ErrOrStderr(), cfg)
	stdout := cmd.OutOrStdout()

	fmt.Fprintln(stdout, sectionTitleStyle.Render("Package Module"))

	fmt.Fprintf(stdout, "%s Normalizing line endings in %s\n", infoIcon, pathStyle.Render(string(cfg.SourceDir)))
	norm, err := modpack.NormalizeLineEndings(cfg.SourceDir, cfg.ScriptSuffix, logger)
	if err != nil {
		return app.fail(cmd, packError("normalize line endings", cfg, err), verbose)
	}
	for _, script := range norm.Converted {
		fmt.Fprintf(stdout, "  %s %s\n", successIcon, script)
	}
	fmt.Fprintf(stdout, "%s %d script(s) checked, %d converted\n", infoIcon, len(norm.Scripts), len(norm.Converted))

	if cfg.UI.CheckScripts {
		problems, checkErr := modpack.CheckScripts(cfg.SourceDir, cfg.ScriptSuffix)
		if checkErr != nil {
			return app.fail(cmd, packError("check scripts", cfg, checkErr), verbose)
		}
		for _, p := range problems {
			logger.Warn("script syntax problem", "file", p.Path, "error", p.Message)
		}
	}

	fmt.Fprintf(stdout, "%s Packaging %s\n", infoIcon, pathStyle.Render(string(cfg.SourceDir)))
	result, err := modpack.Archive(modpack.ArchiveOptions{
		SourceDir:  cfg.SourceDir,
		Descriptor: cfg.Descriptor,
		OutputDir:  cfg.OutputDir,
		Product:    cfg.Product,
		Clock:      app.Clock,
		Logger:     logger,
	})
	if err != nil {
		return app.fail(cmd, packError("package module", cfg, err), verbose)
	}
	for _, entry := range result.Entries {
		fmt.Fprintf(stdout, "  %s %s\n", addIcon, entry)
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%s Module packaged successfully\n", successIcon)
	if result.Name.Fallback != nil {
		fmt.Fprintf(stdout, "%s No version in %s, used a timestamp name\n", warningIcon, pathStyle.Render(string(cfg.Descriptor)))
	}
	fmt.Fprintf(stdout, "%s Output: %s\n", infoIcon, pathStyle.Render(displayPath(result.Path)))
	fmt.Fprintf(stdout, "%s Entries: %d\n", infoIcon, len(result.Entries))
	fmt.Fprintf(stdout, "%s Size: %s\n", infoIcon, humanize.Bytes(uint64(result.Size)))

	return nil
}

// packError attaches the operation, the involved path and the catalog entry
// to a pack failure.
func packError(op string, cfg *config.Config, err error) error {
	ec := issue.NewErrorContext().
		WithOperation(op).
		WithResource(string(cfg.SourceDir)).
		Wrap(err)

	switch {
	case errors.Is(err, modpack.ErrOutputInsideSource):
		ec.WithResource(string(cfg.OutputDir)).
			WithSuggestion("Set output_dir to a directory outside " + string(cfg.SourceDir)).
			WithIssue(issue.OutputInsideSourceId)
	case errors.Is(err, modpack.ErrUnsafeVersion):
		ec.WithResource(string(cfg.Descriptor)).
			WithSuggestion("Remove '/' and '\\' from the version line in " + string(cfg.Descriptor))
	case errors.Is(err, fs.ErrPermission):
		ec.WithSuggestion("Check the permissions of the module tree and the output directory").
			WithIssue(issue.PermissionDeniedId)
	case errors.Is(err, fs.ErrNotExist):
		ec.WithSuggestion("Run modpack from the project root").
			WithSuggestion("Or set source_dir in modpack.cue").
			WithIssue(issue.SourceDirNotFoundId)
	}

	return ec.BuildError()
}

// displayPath shows p relative to the working directory when it lies below it.
func displayPath(p types.FilesystemPath) string {
	wd, err := os.Getwd()
	if err != nil {
		return string(p)
	}
	return fspath.Display(types.FilesystemPath(wd), p)
}

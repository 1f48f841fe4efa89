// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/mrxxx66/modpack/internal/config"
	"github.com/mrxxx66/modpack/internal/issue"
	"github.com/mrxxx66/modpack/pkg/manifest"
	"github.com/mrxxx66/modpack/pkg/modprop"
)

// newSyncCommand creates the `modpack sync` command.
func newSyncCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Regenerate the update manifest from module.prop",
		Long: `Read version and versionCode from module.prop and overwrite the update
manifest (Update.json) with the matching download and changelog links.

When versionCode is absent it is derived from the creation time of
module.prop. A missing version line is an error and leaves the manifest
untouched.

Examples:
  modpack sync
  modpack sync --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, app)
		},
	}
}

func runSync(cmd *cobra.Command, app *App) error {
	loaded, err := app.loadConfig(cmd.Context())
	if err != nil {
		return app.fail(cmd, err, app.verbose)
	}
	cfg := loaded.Config
	stdout := cmd.OutOrStdout()

	result, err := manifest.Sync(manifest.SyncOptions{
		Descriptor:   cfg.Descriptor,
		Manifest:     cfg.Manifest,
		Product:      cfg.Product,
		Links:        cfg.Release.Links(),
		CreationTime: app.CreationTime,
		Logger:       app.logger(cmd.ErrOrStderr(), cfg),
	})
	if err != nil {
		return app.fail(cmd, syncError(cfg, err), app.isVerbose(cfg))
	}

	fmt.Fprintln(stdout, sectionTitleStyle.Render("Sync Update Manifest"))
	fmt.Fprintf(stdout, "%s Version: %s\n", infoIcon, CmdStyle.Render(result.Release.Version))
	code := fmt.Sprintf("%d", result.Release.VersionCode)
	if result.Release.VersionCodeDerived {
		code += SubtitleStyle.Render(" (derived from module.prop creation time)")
	}
	fmt.Fprintf(stdout, "%s Version code: %s\n", infoIcon, code)
	fmt.Fprintf(stdout, "%s Updated %s\n", successIcon, pathStyle.Render(string(cfg.Manifest)))
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, string(result.Rendered))

	return nil
}

func syncError(cfg *config.Config, err error) error {
	ec := issue.NewErrorContext().
		WithOperation("sync update manifest").
		WithResource(string(cfg.Descriptor)).
		Wrap(err)

	switch {
	case errors.Is(err, modprop.ErrVersionNotFound):
		ec.WithSuggestion("Add a 'version=' line to " + string(cfg.Descriptor)).
			WithIssue(issue.DescriptorNotFoundId)
	case errors.Is(err, modprop.ErrInvalidVersionCode):
		ec.WithSuggestion("Use a plain integer such as versionCode=10203").
			WithIssue(issue.InvalidVersionCodeId)
	case errors.Is(err, fs.ErrPermission):
		ec.WithResource(string(cfg.Manifest)).
			WithSuggestion("Check that the manifest is writable").
			WithIssue(issue.PermissionDeniedId)
	}

	return ec.BuildError()
}

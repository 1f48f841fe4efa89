// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/mrxxx66/modpack/internal/issue"
)

const changelogWrapWidth = 100

// newChangelogCommand creates the `modpack changelog` command.
func newChangelogCommand(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Render the local changelog",
		Long: `Render the changelog file published through the update manifest.

Examples:
  modpack changelog
  modpack changelog --raw`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChangelog(cmd, app, raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the Markdown source without rendering")

	return cmd
}

func runChangelog(cmd *cobra.Command, app *App, raw bool) error {
	loaded, err := app.loadConfig(cmd.Context())
	if err != nil {
		return app.fail(cmd, err, app.verbose)
	}
	cfg := loaded.Config
	verbose := app.isVerbose(cfg)

	data, err := os.ReadFile(string(cfg.ChangelogFile))
	if err != nil {
		ec := issue.NewErrorContext().
			WithOperation("read changelog").
			WithResource(string(cfg.ChangelogFile)).
			Wrap(err)
		if errors.Is(err, fs.ErrNotExist) {
			ec.WithSuggestion("Create " + string(cfg.ChangelogFile) + " or set changelog_file in modpack.cue").
				WithIssue(issue.ChangelogNotFoundId)
		}
		return app.fail(cmd, ec.BuildError(), verbose)
	}

	stdout := cmd.OutOrStdout()
	if raw {
		_, err = stdout.Write(data)
		return err
	}

	rendered, err := renderMarkdown(string(data))
	if err != nil {
		return app.fail(cmd, fmt.Errorf("failed to render changelog: %w", err), verbose)
	}
	fmt.Fprint(stdout, rendered)

	return nil
}

func renderMarkdown(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(changelogWrapWidth),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}

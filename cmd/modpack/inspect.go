// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mrxxx66/modpack/internal/issue"
	"github.com/mrxxx66/modpack/pkg/modpack"
	"github.com/mrxxx66/modpack/pkg/types"
)

// newInspectCommand creates the `modpack inspect` command.
func newInspectCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [archive]",
		Short: "List the entries of a module archive",
		Long: `List the files stored in a module archive with their sizes.

Without an argument the most recently built <product>*.zip in the output
directory is inspected.

Examples:
  modpack inspect
  modpack inspect output/device_faker-v1.2.3.zip`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, app, args)
		},
	}
}

func runInspect(cmd *cobra.Command, app *App, args []string) error {
	loaded, err := app.loadConfig(cmd.Context())
	if err != nil {
		return app.fail(cmd, err, app.verbose)
	}
	cfg := loaded.Config
	verbose := app.isVerbose(cfg)

	var archivePath types.FilesystemPath
	if len(args) == 1 {
		archivePath = types.FilesystemPath(args[0])
	} else {
		archivePath, err = modpack.LatestArchive(cfg.OutputDir, cfg.Product)
		if err != nil {
			return app.fail(cmd, issue.NewErrorContext().
				WithOperation("find archive").
				WithResource(string(cfg.OutputDir)).
				WithSuggestion("Run 'modpack pack' first").
				WithSuggestion("Or pass the archive path explicitly").
				WithIssue(issue.NoArchiveFoundId).
				Wrap(err).
				BuildError(), verbose)
		}
	}

	entries, err := modpack.ListEntries(archivePath)
	if err != nil {
		ec := issue.NewErrorContext().
			WithOperation("inspect archive").
			WithResource(string(archivePath)).
			Wrap(err)
		if errors.Is(err, fs.ErrNotExist) {
			ec.WithIssue(issue.NoArchiveFoundId)
		}
		return app.fail(cmd, ec.BuildError(), verbose)
	}

	stdout := cmd.OutOrStdout()
	fmt.Fprintln(stdout, sectionTitleStyle.Render("Archive Contents"))
	fmt.Fprintf(stdout, "%s Archive: %s\n\n", infoIcon, pathStyle.Render(displayPath(archivePath)))
	fmt.Fprintln(stdout, entriesTable(entries))

	return nil
}

// entriesTable renders one row per entry plus a totals footer.
func entriesTable(entries []modpack.Entry) string {
	rows := make([][]string, 0, len(entries))
	var size, compressed uint64
	for _, e := range entries {
		rows = append(rows, []string{
			e.Name,
			humanize.Bytes(e.Size),
			humanize.Bytes(e.CompressedSize),
			methodName(e.Method),
			e.Modified.Format("2006-01-02 15:04:05"),
		})
		size += e.Size
		compressed += e.CompressedSize
	}

	footer := []string{
		fmt.Sprintf("%d entries", len(entries)),
		humanize.Bytes(size),
		humanize.Bytes(compressed),
	}

	return renderTable(
		[]string{"Entry", "Size", "Compressed", "Method", "Modified"},
		rows,
		footer,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	)
}

func methodName(method uint16) string {
	switch method {
	case 0:
		return "store"
	case 8:
		return "deflate"
	default:
		return fmt.Sprintf("method %d", method)
	}
}

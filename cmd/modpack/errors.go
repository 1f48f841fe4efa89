// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mrxxx66/modpack/internal/issue"
	"github.com/mrxxx66/modpack/pkg/types"
)

// fail renders err to the command's stderr, followed by the issue catalog
// entry it references, and returns the ExitError that ends the command.
// Cobra's own error and usage printing is silenced.
func (a *App) fail(cmd *cobra.Command, err error, verbose bool) error {
	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "%s %s\n", errorIcon, formatErrorForDisplay(err, verbose))
	renderIssue(stderr, issue.IssueOf(err))

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: types.ExitFailure, Err: err}
}

// handleExecuteError is the fang error handler. Failures returned by fail were
// already rendered and only carry the exit code, so they print nothing here.
// Cobra's own errors (unknown flags, bad arguments) go to fang's default output.
func handleExecuteError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderIssue prints the catalog entry for id. Zero and unknown ids print nothing.
func renderIssue(w io.Writer, id issue.Id) {
	if id == 0 {
		return
	}
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render("dark")
	if err != nil {
		log.Warn("failed to render issue catalog entry", "issueID", id, "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}

// SPDX-License-Identifier: MPL-2.0

// Package logging builds the structured logger shared by the CLI commands.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Prefix tags every line written by the CLI logger.
const Prefix = "modpack"

// New returns a logger writing to w. Info and above are shown by default;
// verbose lowers the level to Debug.
func New(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		ReportTimestamp: false,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}

// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for modpack.
//
// The commands are built by NewRootCommand around an App, which carries the
// configuration provider, the clock used for fallback archive names and the
// output streams. Handlers return *ExitError after rendering their own error
// output, so Execute only maps it to the process exit code.
package cmd

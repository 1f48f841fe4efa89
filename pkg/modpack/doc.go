// SPDX-License-Identifier: MPL-2.0

// Package modpack turns a module source tree into an installable ZIP.
//
// Packaging is two sequential steps over the same tree:
//
//  1. NormalizeLineEndings rewrites CRLF to LF in script files, in place.
//     Module scripts are executed by the device shell, which does not
//     tolerate carriage returns.
//  2. Archive writes every file of the tree into a deflate ZIP whose entry
//     names are the tree-relative, slash-separated paths. The archive name is
//     derived from the descriptor version ("<product>-v<version>.zip") and
//     falls back to a local timestamp ("<product>_<YYYYMMDD_HHMMSS>.zip")
//     when no version can be read.
//
// CheckScripts and ListEntries are read-only helpers used around those steps.
package modpack

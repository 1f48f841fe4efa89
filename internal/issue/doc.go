// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for fixing it. The issue catalog holds Markdown guidance for the
// failures modpack users hit most, rendered in the terminal with glamour.
package issue

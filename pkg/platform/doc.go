// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes the runtime.GOOS names used for
// platform-specific branches and the file names Windows refuses to create.
package platform

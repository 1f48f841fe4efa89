// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is read from the first of: an explicit --config path,
// modpack.cue in the working directory, and ~/.config/modpack/config.cue (or
// the platform equivalent). Absent files mean built-in defaults. MODPACK_*
// environment variables override individual keys.
//
// Files are validated against the embedded CUE schema (config_schema.cue)
// before being merged into Viper.
package config

// SPDX-License-Identifier: MPL-2.0

// Package modprop reads the module descriptor (module.prop).
//
// The descriptor is a flat list of key=value lines. Two keys matter for
// releases: "version" and "versionCode". Two extractors exist on purpose:
//
//   - ExtractVersion is lenient about presentation: it strips a leading "v"
//     so the value can be embedded in archive names like "name-v1.2.3.zip".
//     Callers are expected to degrade when it fails.
//   - ReadRelease is strict: it keeps the version exactly as written (only
//     surrounding whitespace is trimmed) and fails when it is missing.
package modprop

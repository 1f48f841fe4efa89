// SPDX-License-Identifier: MPL-2.0

// Package manifest generates the update manifest (Update.json) that module
// managers poll to discover new releases.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	// FileName is the conventional manifest file name.
	FileName = "Update.json"

	// DefaultDownloadBase is the release download prefix used in zipUrl.
	DefaultDownloadBase = "https://github.com/mrxxx66/device_faker/releases/download"
	// DefaultChangelogURL is the fixed changelog location.
	DefaultChangelogURL = "https://raw.githubusercontent.com/mrxxx66/device_faker/main/CHANGELOG.md"
)

type (
	// Manifest is the update manifest document. Field order is the JSON order.
	Manifest struct {
		Version     string `json:"version"`
		VersionCode int64  `json:"versionCode"`
		ZipURL      string `json:"zipUrl"`
		Changelog   string `json:"changelog"`
	}

	// Links configures the URLs embedded in the manifest.
	Links struct {
		// DownloadBase prefixes "/<version>/<product>-<version>.zip".
		DownloadBase string
		// ChangelogURL is copied verbatim into the manifest.
		ChangelogURL string
	}
)

// DefaultLinks returns the release links of the device_faker repository.
func DefaultLinks() Links {
	return Links{DownloadBase: DefaultDownloadBase, ChangelogURL: DefaultChangelogURL}
}

// Build assembles the manifest for a release. The version is used verbatim.
func Build(version string, versionCode int64, product string, links Links) Manifest {
	return Manifest{
		Version:     version,
		VersionCode: versionCode,
		ZipURL:      ZipURL(links.DownloadBase, product, version),
		Changelog:   links.ChangelogURL,
	}
}

// ZipURL returns "<base>/<version>/<product>-<version>.zip".
func ZipURL(base, product, version string) string {
	return fmt.Sprintf("%s/%s/%s-%s.zip", strings.TrimRight(base, "/"), version, product, version)
}

// Marshal renders m as UTF-8 JSON with two-space indentation and no trailing
// newline. HTML characters are not escaped.
func Marshal(m Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// writeFile replaces the file at path. Nothing from a previous manifest
// survives.
func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

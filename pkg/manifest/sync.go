// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/semver"

	"github.com/mrxxx66/modpack/pkg/modprop"
	"github.com/mrxxx66/modpack/pkg/types"
)

type (
	// SyncOptions configures Sync.
	SyncOptions struct {
		// Descriptor is the module.prop to read.
		Descriptor types.FilesystemPath
		// Manifest is the manifest file to overwrite.
		Manifest types.FilesystemPath
		// Product names the release asset.
		Product string
		// Links holds the URLs written into the manifest.
		Links Links
		// CreationTime overrides the versionCode fallback lookup.
		CreationTime func(path string) (time.Time, error)
		// Logger defaults to a discarding logger.
		Logger *log.Logger
	}

	// SyncResult reports what was written.
	SyncResult struct {
		Release  *modprop.Release
		Manifest Manifest
		// Rendered is the exact file content written.
		Rendered []byte
	}
)

// Sync regenerates the manifest from the descriptor. A missing descriptor or
// version line is returned as an error wrapping modprop.ErrVersionNotFound
// and no manifest is written.
func Sync(opts SyncOptions) (*SyncResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if err := opts.Descriptor.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Manifest.Validate(); err != nil {
		return nil, err
	}

	rel, err := modprop.ReadRelease(string(opts.Descriptor), modprop.ReleaseOptions{CreationTime: opts.CreationTime})
	if err != nil {
		return nil, err
	}
	logger.Debug("read release", "version", rel.Version, "versionCode", rel.VersionCode, "derived", rel.VersionCodeDerived)
	if rel.VersionCodeDerived {
		logger.Warn("versionCode missing, derived from descriptor creation time", "versionCode", rel.VersionCode)
	}
	if !IsSemver(rel.Version) {
		logger.Warn("version is not semantic versioning", "version", rel.Version)
	}

	m := Build(rel.Version, rel.VersionCode, opts.Product, opts.Links)
	rendered, err := Marshal(m)
	if err != nil {
		return nil, err
	}
	if err := writeFile(string(opts.Manifest), rendered); err != nil {
		return nil, err
	}
	logger.Debug("wrote manifest", "path", opts.Manifest)

	return &SyncResult{Release: rel, Manifest: m, Rendered: rendered}, nil
}

// IsSemver reports whether version, with or without a leading "v", is a
// valid semantic version.
func IsSemver(version string) bool {
	if version == "" {
		return false
	}
	if version[0] != 'v' {
		version = "v" + version
	}
	return semver.IsValid(version)
}

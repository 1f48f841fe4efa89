// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrxxx66/modpack/pkg/manifest"
	"github.com/mrxxx66/modpack/pkg/modpack"
	"github.com/mrxxx66/modpack/pkg/platform"
	"github.com/mrxxx66/modpack/pkg/types"
)

// DefaultProduct is the archive and release asset prefix.
const DefaultProduct = "device_faker"

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidProduct is returned for product names that cannot prefix an
	// archive file name.
	ErrInvalidProduct = errors.New("invalid product name")
	// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
	ErrInvalidLoadOptions = errors.New("invalid load options")
)

type (
	// Config holds the application configuration.
	Config struct {
		// Product prefixes archive names and release assets.
		Product string `json:"product" mapstructure:"product"`
		// SourceDir is the module tree to normalize and package.
		SourceDir types.FilesystemPath `json:"source_dir" mapstructure:"source_dir"`
		// Descriptor is the module.prop read for the version.
		Descriptor types.FilesystemPath `json:"descriptor" mapstructure:"descriptor"`
		// OutputDir receives the archives.
		OutputDir types.FilesystemPath `json:"output_dir" mapstructure:"output_dir"`
		// Manifest is the update manifest overwritten by sync.
		Manifest types.FilesystemPath `json:"manifest" mapstructure:"manifest"`
		// ScriptSuffix selects the files whose line endings are normalized.
		ScriptSuffix string `json:"script_suffix" mapstructure:"script_suffix"`
		// ChangelogFile is rendered by the changelog command.
		ChangelogFile types.FilesystemPath `json:"changelog_file" mapstructure:"changelog_file"`
		// Release configures the URLs written into the manifest.
		Release ReleaseConfig `json:"release" mapstructure:"release"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// ReleaseConfig configures the manifest links.
	ReleaseConfig struct {
		DownloadBase string `json:"download_base" mapstructure:"download_base"`
		ChangelogURL string `json:"changelog_url" mapstructure:"changelog_url"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging and error chains.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// CheckScripts enables the shell syntax check during pack.
		CheckScripts bool `json:"check_scripts" mapstructure:"check_scripts"`
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// InvalidLoadOptionsError is returned when LoadOptions has invalid fields.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Product:       DefaultProduct,
		SourceDir:     "module",
		Descriptor:    "module/module.prop",
		OutputDir:     "output",
		Manifest:      manifest.FileName,
		ScriptSuffix:  modpack.DefaultScriptSuffix,
		ChangelogFile: "CHANGELOG.md",
		Release: ReleaseConfig{
			DownloadBase: manifest.DefaultDownloadBase,
			ChangelogURL: manifest.DefaultChangelogURL,
		},
		UI: UIConfig{
			Verbose:      false,
			CheckScripts: true,
		},
	}
}

// Links converts the release settings for manifest generation.
func (r ReleaseConfig) Links() manifest.Links {
	return manifest.Links{DownloadBase: r.DownloadBase, ChangelogURL: r.ChangelogURL}
}

// Validate checks constraints that also apply to values coming from defaults
// or the environment, which the CUE schema never sees.
func (c *Config) Validate() error {
	var errs []error
	if c.Product == "" || strings.ContainsAny(c.Product, `/\`) || platform.IsWindowsReservedName(c.Product) {
		errs = append(errs, fmt.Errorf("product %q: %w", c.Product, ErrInvalidProduct))
	}
	for _, p := range []types.FilesystemPath{c.SourceDir, c.Descriptor, c.OutputDir, c.Manifest, c.ChangelogFile} {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if !strings.HasPrefix(c.ScriptSuffix, ".") {
		errs = append(errs, fmt.Errorf("script_suffix %q must start with '.'", c.ScriptSuffix))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return formatFieldErrors("invalid config", e.FieldErrors)
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the sentinel and any field-level cause.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Error implements the error interface.
func (e *InvalidLoadOptionsError) Error() string {
	return formatFieldErrors("invalid load options", e.FieldErrors)
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }

func formatFieldErrors(prefix string, errs []error) string {
	if len(errs) == 1 {
		return fmt.Sprintf("%s: %v", prefix, errs[0])
	}
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("%s: %d errors: %s", prefix, len(errs), strings.Join(parts, "; "))
}

// SPDX-License-Identifier: MPL-2.0

package modprop

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// FileName is the conventional name of the descriptor inside a module.
	FileName = "module.prop"

	// KeyVersion is the descriptor key holding the human-readable version.
	KeyVersion = "version"
	// KeyVersionCode is the descriptor key holding the integer version code.
	KeyVersionCode = "versionCode"
)

var (
	// ErrVersionNotFound is returned when the descriptor is missing or has no
	// version= line.
	ErrVersionNotFound = errors.New("version not found")
	// ErrInvalidVersionCode is returned when versionCode= is present but is
	// not an integer.
	ErrInvalidVersionCode = errors.New("invalid version code")

	versionLine     = regexp.MustCompile(`(?m)^version=(.*)$`)
	versionCodeLine = regexp.MustCompile(`(?m)^versionCode=(.*)$`)
)

type (
	// VersionNotFoundError describes why no version could be read.
	// It wraps ErrVersionNotFound for errors.Is() compatibility.
	VersionNotFoundError struct {
		Path   string
		Reason string
	}

	// InvalidVersionCodeError is returned when the versionCode value cannot be
	// parsed as an integer. It wraps ErrInvalidVersionCode.
	InvalidVersionCodeError struct {
		Path  string
		Value string
		Err   error
	}

	// Release is the pair of values published in the update manifest.
	Release struct {
		// Version is the raw version string, "v" prefix preserved.
		Version string
		// VersionCode is the integer version code.
		VersionCode int64
		// VersionCodeDerived is true when the descriptor had no versionCode and
		// the code was derived from the descriptor creation time.
		VersionCodeDerived bool
	}

	// ReleaseOptions tunes ReadRelease.
	ReleaseOptions struct {
		// CreationTime resolves the fallback timestamp for versionCode.
		// Defaults to CreationTime.
		CreationTime func(path string) (time.Time, error)
	}
)

// Error implements the error interface.
func (e *VersionNotFoundError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("could not find version in %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("could not find version in %s", e.Path)
}

// Unwrap returns ErrVersionNotFound so callers can use errors.Is.
func (e *VersionNotFoundError) Unwrap() error { return ErrVersionNotFound }

// Error implements the error interface.
func (e *InvalidVersionCodeError) Error() string {
	return fmt.Sprintf("invalid versionCode %q in %s", e.Value, e.Path)
}

// Unwrap returns ErrInvalidVersionCode so callers can use errors.Is.
func (e *InvalidVersionCodeError) Unwrap() error { return ErrInvalidVersionCode }

// ExtractVersion reads the descriptor at path and returns its version with a
// single leading "v" or "V" removed. A missing file is reported as
// ErrVersionNotFound, like a missing version= line.
func ExtractVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &VersionNotFoundError{Path: path, Reason: "file does not exist"}
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	version, ok := ExtractVersionFrom(data)
	if !ok {
		return "", &VersionNotFoundError{Path: path, Reason: "no version= line"}
	}
	return version, nil
}

// ExtractVersionFrom is the pure form of ExtractVersion.
func ExtractVersionFrom(content []byte) (string, bool) {
	raw, ok := lookup(versionLine, content)
	if !ok {
		return "", false
	}
	if raw != "" && (raw[0] == 'v' || raw[0] == 'V') {
		raw = raw[1:]
	}
	return raw, true
}

// ReadRelease reads version and versionCode from the descriptor at path.
// The version is returned as written. When versionCode is absent it falls back
// to the descriptor creation time in Unix seconds.
func ReadRelease(path string, opts ReleaseOptions) (*Release, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &VersionNotFoundError{Path: path, Reason: "file does not exist"}
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	version, ok := lookup(versionLine, data)
	if !ok {
		return nil, &VersionNotFoundError{Path: path, Reason: "no version= line"}
	}

	rel := &Release{Version: version}

	if rawCode, found := lookup(versionCodeLine, data); found {
		code, parseErr := strconv.ParseInt(rawCode, 10, 64)
		if parseErr != nil {
			return nil, &InvalidVersionCodeError{Path: path, Value: rawCode, Err: parseErr}
		}
		rel.VersionCode = code
		return rel, nil
	}

	ctimeFn := opts.CreationTime
	if ctimeFn == nil {
		ctimeFn = CreationTime
	}
	created, err := ctimeFn(path)
	if err != nil {
		return nil, fmt.Errorf("failed to derive versionCode from %s: %w", path, err)
	}
	rel.VersionCode = created.Unix()
	rel.VersionCodeDerived = true

	return rel, nil
}

// Properties parses every key=value line of the descriptor. Lines without "="
// and comment lines starting with "#" are skipped; later keys win.
func Properties(content []byte) map[string]string {
	props := make(map[string]string)
	for line := range strings.Lines(string(content)) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		props[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return props
}

// lookup returns the trimmed value of the first line matched by re.
func lookup(re *regexp.Regexp, content []byte) (string, bool) {
	m := re.FindSubmatch(content)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(string(m[1])), true
}

// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mrxxx66/modpack/pkg/fspath"
	"github.com/mrxxx66/modpack/pkg/types"
)

// ErrNoArchive is returned by LatestArchive when the output directory holds
// no archive for the product.
var ErrNoArchive = errors.New("no archive found")

// Entry describes one file stored in a module archive.
type Entry struct {
	Name           string
	Size           uint64
	CompressedSize uint64
	Method         uint16
	Modified       time.Time
}

// ListEntries returns the entries of the archive at path in stored order.
func ListEntries(path types.FilesystemPath) (entries []Entry, err error) {
	r, err := zip.OpenReader(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open ZIP file: %w", err)
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	entries = make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, Entry{
			Name:           f.Name,
			Size:           f.UncompressedSize64,
			CompressedSize: f.CompressedSize64,
			Method:         f.Method,
			Modified:       f.Modified,
		})
	}
	return entries, nil
}

// LatestArchive returns the most recently modified "<product>*.zip" in dir.
func LatestArchive(dir types.FilesystemPath, product string) (types.FilesystemPath, error) {
	dirEntries, err := os.ReadDir(string(dir))
	if err != nil {
		return "", fmt.Errorf("failed to read output directory: %w", err)
	}

	var (
		latest     string
		latestTime time.Time
	)
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasPrefix(name, product) || !strings.HasSuffix(name, ".zip") {
			continue
		}
		info, infoErr := de.Info()
		if infoErr != nil {
			return "", fmt.Errorf("failed to get file info: %w", infoErr)
		}
		if latest == "" || info.ModTime().After(latestTime) {
			latest = name
			latestTime = info.ModTime()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("%w for %q in %s", ErrNoArchive, product, dir)
	}
	return fspath.JoinStr(dir, latest), nil
}

// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mrxxx66/modpack/pkg/fspath"
	"github.com/mrxxx66/modpack/pkg/types"
)

// ErrOutputInsideSource is returned when the archive would be written into
// the tree being archived.
var ErrOutputInsideSource = errors.New("output directory is inside the source tree")

type (
	// ArchiveOptions configures Archive.
	ArchiveOptions struct {
		// SourceDir is the root of the tree to package.
		SourceDir types.FilesystemPath
		// Descriptor is the module.prop used to derive the archive name.
		Descriptor types.FilesystemPath
		// OutputDir receives the archive. It is created when absent.
		OutputDir types.FilesystemPath
		// Product is the archive name prefix.
		Product string
		// Clock defaults to the system clock.
		Clock Clock
		// Logger defaults to a discarding logger.
		Logger *log.Logger
	}

	// ArchiveResult describes a written archive.
	ArchiveResult struct {
		// Path is the absolute path of the archive.
		Path types.FilesystemPath
		// Name holds the resolved file name and the fallback reason, if any.
		Name ArchiveName
		// Entries lists the entry names in the order they were written.
		Entries []string
		// Size is the archive size in bytes.
		Size int64
	}
)

// Archive packages every file under opts.SourceDir into a deflate ZIP in
// opts.OutputDir. Entry names are relative to SourceDir with forward slashes
// and no directory entries are written. An existing archive with the same
// name is overwritten.
func Archive(opts ArchiveOptions) (*ArchiveResult, error) {
	logger := orDiscard(opts.Logger)
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}

	if err := opts.SourceDir.Validate(); err != nil {
		return nil, err
	}
	if err := opts.OutputDir.Validate(); err != nil {
		return nil, err
	}

	sourceDir, err := fspath.Abs(opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source directory: %w", err)
	}
	info, err := os.Stat(string(sourceDir))
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", sourceDir)
	}

	outputDir, err := fspath.Abs(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if isWithin(string(sourceDir), string(outputDir)) {
		return nil, fmt.Errorf("%w: %s", ErrOutputInsideSource, outputDir)
	}

	name, err := ResolveArchiveName(opts.Product, string(opts.Descriptor), clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve archive name: %w", err)
	}
	if name.Fallback != nil {
		logger.Warn("using timestamp archive name", "reason", name.Fallback)
	}

	if err = os.MkdirAll(string(outputDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	archivePath := fspath.JoinStr(outputDir, name.Name)
	entries, err := writeArchive(string(sourceDir), string(archivePath), logger)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(string(archivePath))
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}

	return &ArchiveResult{
		Path:    archivePath,
		Name:    name,
		Entries: entries,
		Size:    stat.Size(),
	}, nil
}

// writeArchive creates archivePath and streams every file of sourceDir into
// it. The partial archive is removed when the walk fails.
func writeArchive(sourceDir, archivePath string, logger *log.Logger) (entries []string, err error) {
	zipFile, err := os.Create(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create ZIP file: %w", err)
	}
	// Registered first so it runs after both closes.
	walkFailed := false
	defer func() {
		if walkFailed {
			_ = os.Remove(archivePath)
		}
	}()
	defer func() {
		if closeErr := zipFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zipWriter := zip.NewWriter(zipFile)
	defer func() {
		if closeErr := zipWriter.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	walkErr := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		// Symlinks are followed, except those pointing at directories which
		// the walk does not descend into either.
		fileInfo, infoErr := os.Stat(path)
		if infoErr != nil {
			return fmt.Errorf("failed to get file info: %w", infoErr)
		}
		if fileInfo.IsDir() {
			return nil
		}

		entryName, relErr := relSlash(sourceDir, path)
		if relErr != nil {
			return relErr
		}

		if addErr := addFile(zipWriter, path, entryName, fileInfo); addErr != nil {
			return addErr
		}
		entries = append(entries, entryName)
		logger.Debug("added", "entry", entryName)
		return nil
	})

	if walkErr != nil {
		walkFailed = true
		return nil, fmt.Errorf("failed to archive module: %w", walkErr)
	}

	return entries, nil
}

func addFile(zw *zip.Writer, path, entryName string, fileInfo fs.FileInfo) (err error) {
	header, err := zip.FileInfoHeader(fileInfo)
	if err != nil {
		return fmt.Errorf("failed to create file header: %w", err)
	}
	header.Name = entryName
	header.Method = zip.Deflate

	writer, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create ZIP entry: %w", err)
	}

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err = io.Copy(writer, src); err != nil {
		return fmt.Errorf("failed to write file data: %w", err)
	}
	return nil
}

// isWithin reports whether path equals dir or lies below it.
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mrxxx66/modpack/pkg/types"
)

// DefaultScriptSuffix selects the files rewritten by NormalizeLineEndings.
const DefaultScriptSuffix = ".sh"

var (
	crlf = []byte("\r\n")
	lf   = []byte("\n")
)

// NormalizeResult reports which scripts were visited.
type NormalizeResult struct {
	// Scripts lists every matching file, relative to the root, in walk order.
	Scripts []string
	// Converted lists the subset of Scripts whose content actually changed.
	Converted []string
}

// NormalizeLineEndings replaces every CRLF with LF in all regular files under
// root whose name ends with suffix, including symlinks to regular files.
// Content is treated as raw bytes and every other byte is preserved. Files
// that are already LF-only are not rewritten, so running it twice is a no-op. An empty suffix uses DefaultScriptSuffix.
func NormalizeLineEndings(root types.FilesystemPath, suffix string, logger *log.Logger) (*NormalizeResult, error) {
	if suffix == "" {
		suffix = DefaultScriptSuffix
	}
	logger = orDiscard(logger)

	result := &NormalizeResult{}
	rootDir := string(root)

	walkErr := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		script, err := isScript(path, d, suffix)
		if err != nil || !script {
			return err
		}

		relPath, err := relSlash(rootDir, path)
		if err != nil {
			return err
		}
		result.Scripts = append(result.Scripts, relPath)

		changed, err := normalizeFile(path)
		if err != nil {
			return fmt.Errorf("failed to normalize %s: %w", relPath, err)
		}
		if changed {
			result.Converted = append(result.Converted, relPath)
			logger.Debug("converted line endings", "file", relPath)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return result, nil
}

// isScript reports whether the walked entry is a script. Symlinks count when
// they resolve to a regular file, matching what Archive stores for them.
func isScript(path string, d fs.DirEntry, suffix string) (bool, error) {
	if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
		return false, nil
	}
	if d.Type().IsRegular() {
		return true, nil
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", d.Name(), err)
	}
	return info.Mode().IsRegular(), nil
}

// NormalizeBytes collapses CRLF into LF. Lone CR and LF bytes are kept.
func NormalizeBytes(data []byte) []byte {
	return bytes.ReplaceAll(data, crlf, lf)
}

func normalizeFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if !bytes.Contains(data, crlf) {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, NormalizeBytes(data), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

// relSlash returns path relative to root using forward slashes.
func relSlash(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("failed to get relative path: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger != nil {
		return logger
	}
	return log.New(io.Discard)
}

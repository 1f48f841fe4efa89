// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"mvdan.cc/sh/v3/syntax"

	"github.com/mrxxx66/modpack/pkg/types"
)

// ScriptIssue is a syntax problem found in a module script.
type ScriptIssue struct {
	// Path is the script path relative to the module root.
	Path string
	// Message is the parser error, prefixed with line and column.
	Message string
}

// Error implements the error interface for ScriptIssue.
func (s ScriptIssue) Error() string {
	return s.Message
}

// CheckScripts parses every script under root with a POSIX/bash parser and
// returns the scripts that fail to parse. Parse failures are not errors:
// installers run scripts with their own shell, which may accept dialects the
// parser rejects. Only I/O failures are returned as error.
func CheckScripts(root types.FilesystemPath, suffix string) ([]ScriptIssue, error) {
	if suffix == "" {
		suffix = DefaultScriptSuffix
	}
	rootDir := string(root)

	var issues []ScriptIssue
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
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", relPath, err)
		}

		if _, parseErr := syntax.NewParser().Parse(bytes.NewReader(data), relPath); parseErr != nil {
			issues = append(issues, ScriptIssue{Path: relPath, Message: parseErr.Error()})
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return issues, nil
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mrxxx66/modpack/internal/config"
	"github.com/mrxxx66/modpack/internal/issue"
	"github.com/mrxxx66/modpack/internal/testutil"
	"github.com/mrxxx66/modpack/pkg/types"
)

type (
	// staticConfigProvider returns a fixed configuration or error.
	staticConfigProvider struct {
		cfg  *config.Config
		path string
		err  error
	}

	// testProject is a throwaway project layout rooted in a temp directory.
	testProject struct {
		root string
		cfg  *config.Config
	}

	commandResult struct {
		stdout string
		stderr string
		err    error
	}
)

func (p *staticConfigProvider) Load(_ context.Context, _ config.LoadOptions) (*config.LoadResult, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &config.LoadResult{Config: p.cfg, Path: p.path}, nil
}

// newTestProject creates a config whose paths all live under a temp directory.
// Script checks are off unless a test turns them on.
func newTestProject(t *testing.T) *testProject {
	t.Helper()

	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.SourceDir = types.FilesystemPath(filepath.Join(root, "module"))
	cfg.Descriptor = types.FilesystemPath(filepath.Join(root, "module", "module.prop"))
	cfg.OutputDir = types.FilesystemPath(filepath.Join(root, "output"))
	cfg.Manifest = types.FilesystemPath(filepath.Join(root, "Update.json"))
	cfg.ChangelogFile = types.FilesystemPath(filepath.Join(root, "CHANGELOG.md"))
	cfg.UI.CheckScripts = false

	return &testProject{root: root, cfg: cfg}
}

func (p *testProject) write(t *testing.T, rel, content string) {
	t.Helper()
	testutil.MustWriteFile(t, filepath.Join(p.root, filepath.FromSlash(rel)), content)
}

func (p *testProject) path(rel string) string {
	return filepath.Join(p.root, filepath.FromSlash(rel))
}

// run executes the command tree with args against an App bound to the project.
func (p *testProject) run(t *testing.T, deps Dependencies, args ...string) commandResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	if deps.Config == nil {
		deps.Config = &staticConfigProvider{cfg: p.cfg}
	}
	if deps.Clock == nil {
		deps.Clock = testutil.NewFakeClock(time.Time{})
	}
	deps.Stdout = &stdout
	deps.Stderr = &stderr

	app, err := NewApp(deps)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	root := NewRootCommand(app)
	root.SetArgs(args)
	runErr := root.ExecuteContext(context.Background())

	return commandResult{stdout: stdout.String(), stderr: stderr.String(), err: runErr}
}

// requireIssue asserts err is an ExitError with code 1 referencing id.
func requireIssue(t *testing.T, err error, id issue.Id) {
	t.Helper()

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v (%T), want *ExitError", err, err)
	}
	if exitErr.Code != types.ExitFailure {
		t.Errorf("exit code = %d, want %d", exitErr.Code, types.ExitFailure)
	}
	if got := issue.IssueOf(err); got != id {
		t.Errorf("issue = %d, want %d", got, id)
	}
}

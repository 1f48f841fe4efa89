// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/mrxxx66/modpack/internal/issue"
	"github.com/mrxxx66/modpack/internal/testutil"
	"github.com/mrxxx66/modpack/pkg/manifest"
	"github.com/mrxxx66/modpack/pkg/types"
)

// isolatedOptions points every lookup location at empty temp directories.
func isolatedOptions(t *testing.T) LoadOptions {
	t.Helper()
	return LoadOptions{
		ConfigDirPath: types.FilesystemPath(t.TempDir()),
		BaseDir:       types.FilesystemPath(t.TempDir()),
	}
}

func load(t *testing.T, opts LoadOptions) (*LoadResult, error) {
	t.Helper()
	return NewProvider().Load(context.Background(), opts)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Product != "device_faker" {
		t.Errorf("expected default product to be device_faker, got %s", cfg.Product)
	}
	if cfg.SourceDir != "module" || cfg.OutputDir != "output" {
		t.Errorf("unexpected default directories: source=%s output=%s", cfg.SourceDir, cfg.OutputDir)
	}
	if cfg.Descriptor != "module/module.prop" {
		t.Errorf("expected default descriptor module/module.prop, got %s", cfg.Descriptor)
	}
	if cfg.Manifest != "Update.json" {
		t.Errorf("expected default manifest Update.json, got %s", cfg.Manifest)
	}
	if cfg.ScriptSuffix != ".sh" {
		t.Errorf("expected default script suffix .sh, got %s", cfg.ScriptSuffix)
	}
	if cfg.Release.Links() != manifest.DefaultLinks() {
		t.Errorf("expected default release links, got %+v", cfg.Release)
	}
	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}
	if !cfg.UI.CheckScripts {
		t.Error("expected script checks to be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup only applies on Linux")
	}

	testXDGPath := "/tmp/test-xdg-config"
	restoreXDG := testutil.MustSetenv(t, "XDG_CONFIG_HOME", testXDGPath)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if expected := filepath.Join(testXDGPath, AppName); dir != expected {
		t.Errorf("ConfigDir() = %s, want %s", dir, expected)
	}

	restoreXDG()
	defer testutil.MustUnsetenv(t, "XDG_CONFIG_HOME")()
	home := t.TempDir()
	defer testutil.SetHomeDir(t, home)()

	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if expected := filepath.Join(home, ".config", AppName); dir != expected {
		t.Errorf("ConfigDir() = %s, want %s", dir, expected)
	}
}

func TestConfigDirOverride(t *testing.T) {
	override := t.TempDir()
	SetConfigDirOverride(override)
	t.Cleanup(Reset)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if dir != override {
		t.Errorf("ConfigDir() = %s, want %s", dir, override)
	}

	Reset()
	if dir, _ := ConfigDir(); dir == override {
		t.Error("Reset() should clear the override")
	}
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	result, err := load(t, isolatedOptions(t))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if result.Path != "" {
		t.Errorf("Path = %q, want empty", result.Path)
	}
	if *result.Config != *DefaultConfig() {
		t.Errorf("Load() = %+v, want defaults", result.Config)
	}
}

func TestLoad_UserConfigDir(t *testing.T) {
	opts := isolatedOptions(t)
	cfgPath := filepath.Join(string(opts.ConfigDirPath), "config.cue")
	testutil.MustWriteFile(t, cfgPath, `
product: "other_tool"
output_dir: "dist"
ui: check_scripts: false
`)

	result, err := load(t, opts)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if result.Path != cfgPath {
		t.Errorf("Path = %q, want %q", result.Path, cfgPath)
	}
	cfg := result.Config
	if cfg.Product != "other_tool" || cfg.OutputDir != "dist" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.UI.CheckScripts {
		t.Error("ui.check_scripts should be false")
	}
	if cfg.SourceDir != "module" || cfg.Release.DownloadBase != manifest.DefaultDownloadBase {
		t.Error("unset keys should keep their defaults")
	}
}

func TestLoad_LocalConfigWinsOverUserConfigDir(t *testing.T) {
	opts := isolatedOptions(t)
	testutil.MustWriteFile(t, filepath.Join(string(opts.ConfigDirPath), "config.cue"), `product: "from_user_dir"`)
	localPath := filepath.Join(string(opts.BaseDir), LocalConfigFile)
	testutil.MustWriteFile(t, localPath, `product: "from_local"`)

	result, err := load(t, opts)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if result.Config.Product != "from_local" {
		t.Errorf("Product = %q, want from_local", result.Config.Product)
	}
	if result.Path != localPath {
		t.Errorf("Path = %q, want %q", result.Path, localPath)
	}
}

func TestLoad_UserConfigDirWithoutLocal(t *testing.T) {
	opts := isolatedOptions(t)
	userPath := filepath.Join(string(opts.ConfigDirPath), "config.cue")
	testutil.MustWriteFile(t, userPath, `product: "from_user_dir"`)

	result, err := load(t, opts)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if result.Config.Product != "from_user_dir" {
		t.Errorf("Product = %q, want from_user_dir", result.Config.Product)
	}
	if result.Path != userPath {
		t.Errorf("Path = %q, want %q", result.Path, userPath)
	}
}

func TestLoad_LocalConfigInWorkingDirectory(t *testing.T) {
	wd := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(wd, LocalConfigFile), `manifest: "dist/Update.json"`)
	defer testutil.MustChdir(t, wd)()

	result, err := load(t, LoadOptions{ConfigDirPath: types.FilesystemPath(t.TempDir())})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if result.Path != LocalConfigFile {
		t.Errorf("Path = %q, want %q", result.Path, LocalConfigFile)
	}
	if result.Config.Manifest != "dist/Update.json" {
		t.Errorf("Manifest = %q, want dist/Update.json", result.Config.Manifest)
	}
}

func TestLoad_CustomPath_Valid(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "custom.cue")
	testutil.MustWriteFile(t, cfgPath, `
release: {
	download_base: "https://example.com/releases"
}
`)

	opts := isolatedOptions(t)
	opts.ConfigFilePath = types.FilesystemPath(cfgPath)
	result, err := load(t, opts)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if result.Config.Release.DownloadBase != "https://example.com/releases" {
		t.Errorf("DownloadBase = %q", result.Config.Release.DownloadBase)
	}
	if result.Config.Release.ChangelogURL != manifest.DefaultChangelogURL {
		t.Errorf("ChangelogURL should keep its default, got %q", result.Config.Release.ChangelogURL)
	}
}

func TestLoad_CustomPath_NotFound_ReturnsError(t *testing.T) {
	opts := isolatedOptions(t)
	opts.ConfigFilePath = types.FilesystemPath(filepath.Join(t.TempDir(), "absent.cue"))

	_, err := load(t, opts)
	if err == nil {
		t.Fatal("Load() should fail for a missing explicit config file")
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error should be *issue.ActionableError, got %T", err)
	}
	if ae.Issue != issue.ConfigLoadFailedId {
		t.Errorf("Issue = %d, want ConfigLoadFailedId", ae.Issue)
	}
	if !ae.HasSuggestions() {
		t.Error("error should carry suggestions")
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"invalid CUE syntax", `product: "unterminated`, ""},
		{"unknown field", `produkt: "typo"`, "produkt"},
		{"wrong type", `ui: verbose: "yes"`, "ui.verbose"},
		{"product with slash", `product: "a/b"`, "product"},
		{"suffix without dot", `script_suffix: "sh"`, "script_suffix"},
		{"non-http download base", `release: download_base: "ftp://x"`, "release.download_base"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), "bad.cue")
			testutil.MustWriteFile(t, cfgPath, tt.content)

			opts := isolatedOptions(t)
			opts.ConfigFilePath = types.FilesystemPath(cfgPath)
			_, err := load(t, opts)
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), "bad.cue") {
				t.Errorf("error should name the file, got: %v", err)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	defer testutil.MustSetenv(t, "MODPACK_PRODUCT", "env_tool")()
	defer testutil.MustSetenv(t, "MODPACK_UI_VERBOSE", "true")()
	defer testutil.MustSetenv(t, "MODPACK_RELEASE_CHANGELOG_URL", "https://example.com/CHANGES.md")()

	result, err := load(t, isolatedOptions(t))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	cfg := result.Config
	if cfg.Product != "env_tool" {
		t.Errorf("Product = %q, want env_tool", cfg.Product)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose should be true from the environment")
	}
	if cfg.Release.ChangelogURL != "https://example.com/CHANGES.md" {
		t.Errorf("ChangelogURL = %q", cfg.Release.ChangelogURL)
	}
}

func TestLoad_InvalidEnvironmentValue(t *testing.T) {
	defer testutil.MustSetenv(t, "MODPACK_PRODUCT", "bad/name")()

	_, err := load(t, isolatedOptions(t))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load() error = %v, want ErrInvalidConfig", err)
	}
	if !errors.Is(err, ErrInvalidProduct) {
		t.Errorf("error should wrap ErrInvalidProduct: %v", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewProvider().Load(ctx, isolatedOptions(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUE_LoadsBack(t *testing.T) {
	want := DefaultConfig()
	want.Product = "round_trip"
	want.UI.Verbose = true
	want.UI.CheckScripts = false

	cfgPath := filepath.Join(t.TempDir(), "generated.cue")
	testutil.MustWriteFile(t, cfgPath, GenerateCUE(want))

	opts := isolatedOptions(t)
	opts.ConfigFilePath = types.FilesystemPath(cfgPath)
	result, err := load(t, opts)
	if err != nil {
		t.Fatalf("generated config failed to load: %v", err)
	}
	if *result.Config != *want {
		t.Errorf("Load() = %+v, want %+v", result.Config, want)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.cue")

	created, err := CreateDefaultConfig(cfgPath)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if !created {
		t.Error("first call should create the file")
	}
	if !strings.Contains(testutil.MustReadFile(t, cfgPath), `product: "device_faker"`) {
		t.Error("generated file should contain the default product")
	}

	testutil.MustWriteFile(t, cfgPath, `product: "kept"`)
	created, err = CreateDefaultConfig(cfgPath)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if created {
		t.Error("existing file should not be overwritten")
	}
	if got := testutil.MustReadFile(t, cfgPath); got != `product: "kept"` {
		t.Errorf("file content changed to %q", got)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if !fileExists(file) {
		t.Error("fileExists() = false for a regular file")
	}
	if fileExists(dir) {
		t.Error("fileExists() = true for a directory")
	}
	if fileExists(filepath.Join(dir, "absent")) {
		t.Error("fileExists() = true for a missing path")
	}
}

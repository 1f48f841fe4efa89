// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
	"time"

	"github.com/mrxxx66/modpack/pkg/types"
)

// writeTree creates files (slash-separated relative path -> content) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestNormalizeBytes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf collapsed", "a\r\nb\r\n", "a\nb\n"},
		{"lf untouched", "a\nb\n", "a\nb\n"},
		{"lone cr kept", "a\rb\r\n", "a\rb\n"},
		{"double cr keeps first", "a\r\r\n", "a\r\n"},
		{"binary bytes kept", "\x00\xff\r\n\xfe", "\x00\xff\n\xfe"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBytes([]byte(tt.in))
			if string(got) != tt.want {
				t.Errorf("NormalizeBytes(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeLineEndings(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"customize.sh":        "#!/system/bin/sh\r\necho hi\r\n",
		"service.sh":          "echo already lf\n",
		"common/functions.sh": "f() {\r\n  :\r\n}\r\n",
		"module.prop":         "id=x\r\nversion=1.0\r\n",
		"notes.sh.txt":        "keep\r\n",
	})

	result, err := NormalizeLineEndings(types.FilesystemPath(root), "", nil)
	if err != nil {
		t.Fatalf("NormalizeLineEndings() error = %v", err)
	}

	wantScripts := []string{"common/functions.sh", "customize.sh", "service.sh"}
	if !slices.Equal(result.Scripts, wantScripts) {
		t.Errorf("Scripts = %v, want %v", result.Scripts, wantScripts)
	}
	wantConverted := []string{"common/functions.sh", "customize.sh"}
	if !slices.Equal(result.Converted, wantConverted) {
		t.Errorf("Converted = %v, want %v", result.Converted, wantConverted)
	}

	for _, rel := range wantScripts {
		data := readFile(t, filepath.Join(root, filepath.FromSlash(rel)))
		if bytes.Contains(data, []byte("\r\n")) {
			t.Errorf("%s still contains CRLF: %q", rel, data)
		}
	}

	if got := string(readFile(t, filepath.Join(root, "customize.sh"))); got != "#!/system/bin/sh\necho hi\n" {
		t.Errorf("customize.sh = %q", got)
	}
	if got := string(readFile(t, filepath.Join(root, "module.prop"))); got != "id=x\r\nversion=1.0\r\n" {
		t.Errorf("module.prop should be untouched, got %q", got)
	}
	if got := string(readFile(t, filepath.Join(root, "notes.sh.txt"))); got != "keep\r\n" {
		t.Errorf("notes.sh.txt should be untouched, got %q", got)
	}
}

func TestNormalizeLineEndings_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.sh":     "x\r\n\r\ny\r\r\n",
		"sub/b.sh": "\xef\xbb\xbfecho\r\n",
	})

	if _, err := NormalizeLineEndings(types.FilesystemPath(root), ".sh", nil); err != nil {
		t.Fatalf("first run error = %v", err)
	}
	once := map[string][]byte{
		"a.sh":     readFile(t, filepath.Join(root, "a.sh")),
		"sub/b.sh": readFile(t, filepath.Join(root, "sub", "b.sh")),
	}

	// Backdate so an unnecessary rewrite would be visible in the mtime.
	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	for rel := range once {
		if err := os.Chtimes(filepath.Join(root, filepath.FromSlash(rel)), past, past); err != nil {
			t.Fatal(err)
		}
	}

	result, err := NormalizeLineEndings(types.FilesystemPath(root), ".sh", nil)
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}
	if len(result.Converted) != 0 {
		t.Errorf("second run converted %v, want none", result.Converted)
	}

	for rel, want := range once {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if got := readFile(t, path); !bytes.Equal(got, want) {
			t.Errorf("%s changed on second run: %q -> %q", rel, want, got)
		}
		info, statErr := os.Stat(path)
		if statErr != nil {
			t.Fatal(statErr)
		}
		if !info.ModTime().Equal(past) {
			t.Errorf("%s was rewritten on second run", rel)
		}
	}
}

func TestNormalizeLineEndings_NoScripts(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"README.md": "hi\r\n"})

	result, err := NormalizeLineEndings(types.FilesystemPath(root), ".sh", nil)
	if err != nil {
		t.Fatalf("NormalizeLineEndings() error = %v", err)
	}
	if len(result.Scripts) != 0 || len(result.Converted) != 0 {
		t.Errorf("expected no scripts, got %+v", result)
	}
}

func TestNormalizeLineEndings_MissingRoot(t *testing.T) {
	_, err := NormalizeLineEndings(types.FilesystemPath(filepath.Join(t.TempDir(), "absent")), ".sh", nil)
	if err == nil {
		t.Fatal("NormalizeLineEndings() should fail for a missing root")
	}
}

func TestNormalizeLineEndings_PreservesMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not preserved on Windows")
	}
	root := t.TempDir()
	path := filepath.Join(root, "run.sh")
	if err := os.WriteFile(path, []byte("echo\r\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := NormalizeLineEndings(types.FilesystemPath(root), ".sh", nil); err != nil {
		t.Fatalf("NormalizeLineEndings() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestNormalizeLineEndings_SymlinkedScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}
	tmpDir := t.TempDir()
	sourceDir := filepath.Join(tmpDir, "module")
	writeTree(t, tmpDir, map[string]string{
		"shared/common.sh":   "echo hi\r\n",
		"module/module.prop": "version=1.0\n",
	})
	if err := os.Symlink(filepath.Join("..", "shared", "common.sh"), filepath.Join(sourceDir, "service.sh")); err != nil {
		t.Fatal(err)
	}

	result, err := NormalizeLineEndings(types.FilesystemPath(sourceDir), ".sh", nil)
	if err != nil {
		t.Fatalf("NormalizeLineEndings() error = %v", err)
	}
	if !slices.Equal(result.Converted, []string{"service.sh"}) {
		t.Errorf("Converted = %v, want [service.sh]", result.Converted)
	}

	archived, err := Archive(ArchiveOptions{
		SourceDir:  types.FilesystemPath(sourceDir),
		Descriptor: types.FilesystemPath(filepath.Join(sourceDir, "module.prop")),
		OutputDir:  types.FilesystemPath(filepath.Join(tmpDir, "output")),
		Product:    "device_faker",
	})
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	_, contents := readArchive(t, string(archived.Path))
	if got := contents["service.sh"]; got != "echo hi\n" {
		t.Errorf("archived service.sh = %q, want LF-only", got)
	}

	info, err := os.Lstat(filepath.Join(sourceDir, "service.sh"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Error("service.sh should still be a symlink after normalization")
	}
}

func TestNormalizeLineEndings_DanglingSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}
	root := t.TempDir()
	if err := os.Symlink(filepath.Join(root, "absent.sh"), filepath.Join(root, "service.sh")); err != nil {
		t.Fatal(err)
	}

	if _, err := NormalizeLineEndings(types.FilesystemPath(root), ".sh", nil); err == nil {
		t.Fatal("NormalizeLineEndings() should fail for a dangling script symlink")
	}
}

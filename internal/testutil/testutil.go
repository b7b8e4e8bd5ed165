package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempDir is a temporary directory of script files for testing
type TempDir struct {
	Path string
	T    *testing.T
}

// NewTempDir creates a new temporary directory, removed when the test ends
func NewTempDir(t *testing.T) *TempDir {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "rightscript-sync-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dir := &TempDir{Path: tmpDir, T: t}
	t.Cleanup(dir.Cleanup)
	return dir
}

// Cleanup removes the temporary directory
func (d *TempDir) Cleanup() {
	if err := os.RemoveAll(d.Path); err != nil {
		d.T.Errorf("failed to cleanup temp dir: %v", err)
	}
}

// CreateFile writes a file relative to the directory and returns its path
func (d *TempDir) CreateFile(name, content string) string {
	d.T.Helper()
	path := filepath.Join(d.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		d.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		d.T.Fatalf("failed to create file: %v", err)
	}
	return path
}

// Mkdir creates a subdirectory and returns its path
func (d *TempDir) Mkdir(name string) string {
	d.T.Helper()
	path := filepath.Join(d.Path, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		d.T.Fatalf("failed to create directory: %v", err)
	}
	return path
}

// ReadFile returns the content of a file inside or outside the directory
func (d *TempDir) ReadFile(path string) string {
	d.T.Helper()
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.Path, path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		d.T.Fatalf("failed to read file: %v", err)
	}
	return string(content)
}

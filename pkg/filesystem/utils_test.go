package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetDefaultPath(t *testing.T) {
	path, err := GetDefaultPath("cache.db")
	if err != nil {
		t.Fatalf("GetDefaultPath() error = %v", err)
	}
	if filepath.Base(path) != "cache.db" {
		t.Errorf("expected filename preserved, got %q", path)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got %q", path)
	}
}

func TestEnsureDirectoryExists(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name     string
		filePath string
	}{
		{"current directory", "test.db"},
		{"nested directories", filepath.Join(tempDir, "a", "b", "c", "test.db")},
		{"existing directory", filepath.Join(tempDir, "test.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := EnsureDirectoryExists(tt.filePath); err != nil {
				t.Fatalf("EnsureDirectoryExists(%q) error = %v", tt.filePath, err)
			}
			if dir := filepath.Dir(tt.filePath); dir != "." {
				if _, err := os.Stat(dir); err != nil {
					t.Errorf("directory %q was not created: %v", dir, err)
				}
			}
		})
	}
}

func TestEnsureDirectoryExistsReadOnlyParent(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("meaningless as root")
	}

	readOnly := filepath.Join(t.TempDir(), "readonly")
	if err := os.MkdirAll(readOnly, 0o555); err != nil {
		t.Fatal(err)
	}

	err := EnsureDirectoryExists(filepath.Join(readOnly, "sub", "test.db"))
	if err == nil {
		t.Error("expected error for read-only parent")
	} else if !strings.Contains(err.Error(), "sub") {
		t.Errorf("error should name the directory, got %v", err)
	}
}

package io

import (
	"os"
	"path/filepath"
	"testing"
)

// createTempFile writes content to a file named name inside a per-test
// temporary directory and returns its path.
func createTempFile(t *testing.T, content []byte, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create temp file %s: %v", name, err)
	}
	return path
}

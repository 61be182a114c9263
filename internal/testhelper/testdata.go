// Package testhelper provides testdata fixtures and fake upstream servers for package tests.
package testhelper

import (
	"os"
	"path/filepath"
	"testing"
)

// LoadTestdata loads a file from the calling package's testdata directory.
func LoadTestdata(t testing.TB, filename string) []byte {
	t.Helper()

	testdataPath := filepath.Join("testdata", filename)

	data, err := os.ReadFile(testdataPath) //nolint:gosec // Test file paths are controlled
	if err != nil {
		t.Fatalf("Failed to load testdata file %s: %v", testdataPath, err)
	}

	return data
}

// WriteFile writes data to name inside a fresh temporary directory and returns the path.
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

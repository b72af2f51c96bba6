package files

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetProjectRoot finds the project root directory by looking for go.mod.
// Falls back to the working directory when no go.mod is found (installed
// binaries run outside the repo).
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	probe := dir
	for {
		if _, err := os.Stat(filepath.Join(probe, "go.mod")); err == nil {
			return probe, nil
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			return dir, nil
		}
		probe = parent
	}
}

// EnsureDataDir creates the data directory under root if needed and returns
// its path.
func EnsureDataDir(root string) (string, error) {
	dataDir := filepath.Join(root, "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	return dataDir, nil
}

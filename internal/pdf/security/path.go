// Package security confines document access for path-based tools to
// the configured documents directory.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator checks document paths against a single directory tree
type PathValidator struct {
	documentsDir string
}

// NewPathValidator creates a validator rooted at documentsDir. The
// directory does not have to exist yet; placeholders are allowed and
// containment starts applying once it does.
func NewPathValidator(documentsDir string) (*PathValidator, error) {
	if documentsDir == "" {
		return nil, fmt.Errorf("documents directory cannot be empty")
	}
	return &PathValidator{documentsDir: documentsDir}, nil
}

// DocumentsDir returns the configured directory
func (v *PathValidator) DocumentsDir() string {
	return v.documentsDir
}

// Resolve normalizes path and verifies it stays inside the documents
// directory. Relative paths are taken relative to that directory.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.documentsDir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if err := v.ValidatePath(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// ValidatePath checks that path lies inside the documents directory.
// Validation is skipped while the directory does not exist.
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if _, err := os.Stat(v.documentsDir); os.IsNotExist(err) {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	within, err := v.isWithinDocumentsDir(abs)
	if err != nil {
		return err
	}
	if !within {
		return fmt.Errorf("path is outside the documents directory: %s", path)
	}
	return nil
}

// isWithinDocumentsDir requires containment of both the literal path
// and, for symlinks, the resolved target.
func (v *PathValidator) isWithinDocumentsDir(absPath string) (bool, error) {
	absDir, err := filepath.Abs(v.documentsDir)
	if err != nil {
		return false, fmt.Errorf("failed to resolve documents directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(absDir)

	realPath := cleanPath
	if info, err := os.Lstat(cleanPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
			realPath = resolved
		}
	}

	realDir := cleanDir
	if resolved, err := filepath.EvalSymlinks(cleanDir); err == nil {
		realDir = resolved
	}

	return containedIn(cleanPath, cleanDir, realDir) && containedIn(realPath, cleanDir, realDir), nil
}

func containedIn(path string, dirs ...string) bool {
	for _, dir := range dirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

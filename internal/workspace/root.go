package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Root marker names
const (
	StaticDir = "static" // Primary marker: the site's asset directory
	GoModFile = "go.mod" // Secondary marker for a source checkout
)

// EnvRoot overrides root detection.
const EnvRoot = "PORTRAITS_ROOT"

// maxIterations limits upward traversal.
const maxIterations = 10

// ErrInvalidRoot is returned when an explicit root is not a directory.
var ErrInvalidRoot = errors.New("invalid program root")

// FindRoot returns the absolute program root. It checks, in order:
//
//  1. explicit, typically the --root flag or paths.root
//  2. the PORTRAITS_ROOT environment variable
//  3. the nearest ancestor of the working directory holding static/
//  4. the nearest ancestor holding go.mod
//  5. the working directory itself
//
// An explicit or environment root must be an existing directory.
func FindRoot(explicit string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if explicit != "" {
		logger.Debug("Using explicit program root", "root", explicit)
		return validateRoot(explicit)
	}

	if env := os.Getenv(EnvRoot); env != "" {
		logger.Debug("Using program root from environment", "env", EnvRoot, "root", env)
		return validateRoot(env)
	}

	workingDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for _, marker := range []string{StaticDir, GoModFile} {
		if dir, ok := findUpward(workingDir, marker); ok {
			logger.Debug("Found program root", "root", dir, "marker", marker)
			return dir, nil
		}
	}

	logger.Debug("No root marker found, using working directory", "root", workingDir)
	return workingDir, nil
}

// Resolve joins p onto root unless p is already absolute.
func Resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// findUpward looks for marker in start and its ancestors.
func findUpward(start, marker string) (string, bool) {
	dir := start
	for i := 0; i < maxIterations; i++ {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		// Stop at the filesystem root
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

func validateRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidRoot, dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidRoot, dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, dir)
	}
	return abs, nil
}

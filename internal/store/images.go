package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// ImageStore keeps generated portraits in a single directory.
type ImageStore struct {
	dir    string
	prefix string
}

// NewImageStore creates dir if needed. prefix is the relative path written
// into records, e.g. "Images" for Images/<filename>.
func NewImageStore(dir, prefix string) (*ImageStore, error) {
	if dir == "" {
		return nil, errors.New("images directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create images directory %s: %w", dir, err)
	}
	return &ImageStore{dir: dir, prefix: prefix}, nil
}

// Dir returns the images directory.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Path returns the absolute location of filename inside the images directory.
func (s *ImageStore) Path(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." || filepath.Base(filename) != filename {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return filepath.Join(s.dir, filename), nil
}

// RelPath returns the path recorded on a specialist record for filename.
// It always uses forward slashes.
func (s *ImageStore) RelPath(filename string) string {
	if s.prefix == "" {
		return filename
	}
	return path.Join(s.prefix, filename)
}

// Exists reports whether anything is present at filename. Stat failures
// other than "not found" are returned so the caller does not regenerate an
// image it merely cannot see.
func (s *ImageStore) Exists(filename string) (bool, error) {
	p, err := s.Path(filename)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Write stores data under filename, replacing any previous file atomically.
func (s *ImageStore) Write(filename string, data []byte) error {
	p, err := s.Path(filename)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(p, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, p, err)
	}
	return nil
}

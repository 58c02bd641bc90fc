package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/phrazzld/specialist-portraits/internal/domain"
)

// documentIndent matches the four-space layout of the hand-edited document.
const documentIndent = "    "

// RecordStore defines the interface for specialist collection persistence.
type RecordStore interface {
	// Load reads the whole collection in document order.
	// Returns ErrNotFound when the document does not exist and
	// ErrInvalidDocument when it cannot be parsed.
	Load(ctx context.Context) ([]domain.Record, error)

	// Save replaces the whole document with records wrapped under the
	// "doctors" key. Returns ErrWriteFailed on any I/O failure.
	Save(ctx context.Context, records []domain.Record) error
}

// JSONStore implements RecordStore on a single JSON file.
type JSONStore struct {
	path   string
	logger *slog.Logger
}

// NewJSONStore creates a store for the document at path.
func NewJSONStore(path string, logger *slog.Logger) *JSONStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONStore{
		path:   path,
		logger: logger.With("component", "json_store", "path", path),
	}
}

// Path returns the document path.
func (s *JSONStore) Path() string {
	return s.path
}

// Load implements RecordStore. A document without a "doctors" key, or with a
// null value there, yields an empty collection.
func (s *JSONStore) Load(ctx context.Context) ([]domain.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, s.path, err)
	}

	s.logger.DebugContext(ctx, "Loaded specialist document", "records", len(doc.Doctors))

	if doc.Doctors == nil {
		return []domain.Record{}, nil
	}
	return doc.Doctors, nil
}

// Save implements RecordStore.
func (s *JSONStore) Save(ctx context.Context, records []domain.Record) error {
	data, err := EncodeDocument(records)
	if err != nil {
		return fmt.Errorf("%w: failed to encode document: %v", ErrWriteFailed, err)
	}

	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, s.path, err)
	}

	s.logger.DebugContext(ctx, "Saved specialist document",
		"records", len(records),
		"bytes", len(data))
	return nil
}

// EncodeDocument renders records as the on-disk document: four-space
// indentation, HTML characters and non-ASCII text written literally.
func EncodeDocument(records []domain.Record) ([]byte, error) {
	if records == nil {
		records = []domain.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", documentIndent)
	if err := enc.Encode(domain.Document{Doctors: records}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/i474232898/forecast-blend/internal/catalog"
	"github.com/i474232898/forecast-blend/internal/common"
	"github.com/i474232898/forecast-blend/internal/forecast"
)

// FileStore persists documents as static JSON artifacts, one file per point:
// <dir>/33_51_-95_14_7day.json.
type FileStore struct {
	dir string
}

// NewFileStore creates the artifact directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create forecast dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the artifact directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the artifact path of a point.
func (s *FileStore) Path(p forecast.Point) string {
	return filepath.Join(s.dir, catalog.ArtifactName(p.Lat, p.Lon))
}

// Save writes the document atomically (temp file + rename).
func (s *FileStore) Save(_ context.Context, p forecast.Point, doc forecast.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal forecast: %w", err)
	}
	return common.WriteFileAtomic(s.Path(p), append(data, '\n'))
}

// Latest reads the artifact of a point.
func (s *FileStore) Latest(_ context.Context, p forecast.Point) (forecast.Document, error) {
	data, err := os.ReadFile(s.Path(p))
	if errors.Is(err, fs.ErrNotExist) {
		return forecast.Document{}, ErrNotFound
	}
	if err != nil {
		return forecast.Document{}, fmt.Errorf("read forecast artifact: %w", err)
	}

	var doc forecast.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return forecast.Document{}, fmt.Errorf("decode forecast artifact %s: %w", s.Path(p), err)
	}
	return doc, nil
}

var _ forecast.Store = (*FileStore)(nil)

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/i474232898/forecast-blend/internal/common"
	"github.com/i474232898/forecast-blend/internal/tropical"
)

// TropicalFile persists the tropical summary as a single JSON file,
// api/tropical_summary.json by default.
type TropicalFile struct {
	path string
}

func NewTropicalFile(path string) *TropicalFile {
	return &TropicalFile{path: path}
}

func (s *TropicalFile) Path() string {
	return s.path
}

// SaveSummary writes the summary atomically, creating the parent directory.
func (s *TropicalFile) SaveSummary(_ context.Context, summary tropical.Summary) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create tropical dir: %w", err)
	}
	data, err := json.MarshalIndent(summary, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal tropical summary: %w", err)
	}
	return common.WriteFileAtomic(s.path, append(data, '\n'))
}

// LatestSummary reads the summary file.
func (s *TropicalFile) LatestSummary(_ context.Context) (tropical.Summary, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return tropical.Summary{}, ErrNotFound
	}
	if err != nil {
		return tropical.Summary{}, fmt.Errorf("read tropical summary: %w", err)
	}

	var summary tropical.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return tropical.Summary{}, fmt.Errorf("decode tropical summary %s: %w", s.path, err)
	}
	return summary, nil
}

var _ tropical.Store = (*TropicalFile)(nil)

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/i474232898/forecast-blend/internal/common"
)

// IndexFile is the name of the index written next to the artifacts.
const IndexFile = "index.json"

// Entry maps one artifact back to its coordinates.
type Entry struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	URL string  `json:"url"`
}

// Index lists every forecast artifact in a directory.
type Index struct {
	GeneratedAt time.Time `json:"generated_at"`
	Points      []Entry   `json:"points"`
}

// Indexer builds and writes the index of an artifact directory.
type Indexer struct {
	dir string
	now func() time.Time
}

func NewIndexer(dir string) *Indexer {
	return &Indexer{dir: dir, now: time.Now}
}

// Build scans the directory. A missing directory yields an empty index.
// Files that do not look like forecast artifacts are ignored.
func (ix *Indexer) Build() (Index, error) {
	idx := Index{
		GeneratedAt: ix.now().UTC(),
		Points:      []Entry{},
	}

	entries, err := os.ReadDir(ix.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return idx, nil
	}
	if err != nil {
		return Index{}, fmt.Errorf("read forecast dir %s: %w", ix.dir, err)
	}

	// ReadDir returns entries sorted by name.
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, artifactSuffix) {
			continue
		}
		lat, lon, ok := ParseArtifactName(name)
		if !ok {
			continue
		}
		idx.Points = append(idx.Points, Entry{Lat: lat, Lon: lon, URL: name})
	}
	return idx, nil
}

// Write builds the index and stores it as <dir>/index.json.
func (ix *Indexer) Write() (Index, error) {
	idx, err := ix.Build()
	if err != nil {
		return Index{}, err
	}
	if err := os.MkdirAll(ix.dir, 0o755); err != nil {
		return Index{}, fmt.Errorf("create forecast dir %s: %w", ix.dir, err)
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return Index{}, fmt.Errorf("marshal index: %w", err)
	}
	if err := common.WriteFileAtomic(filepath.Join(ix.dir, IndexFile), append(data, '\n')); err != nil {
		return Index{}, err
	}
	return idx, nil
}

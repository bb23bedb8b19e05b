package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/i474232898/forecast-blend/internal/forecast"
	"github.com/i474232898/forecast-blend/internal/tropical"
)

var testPoint = forecast.Point{Lat: "33.51", Lon: "-95.14"}

func sampleDoc(runID string) forecast.Document {
	high, low := 95.0, 75.0
	date := "2025-07-18"
	return forecast.Document{
		Metadata: forecast.Metadata{
			RunID:         runID,
			GeneratedAt:   time.Date(2025, 7, 18, 11, 0, 0, 0, time.UTC),
			Lat:           33.51,
			Lon:           -95.14,
			DaysRequested: 7,
			Sources:       []string{"TWC", "NWS"},
		},
		Days: []forecast.BlendedDay{{
			Date:        &date,
			HighTemp:    &high,
			LowTemp:     &low,
			Narrative:   "Sunny Clear",
			SourceFlags: forecast.SourceFlags{NWSTempDay: true, NWSTempNight: true},
		}},
	}
}

func TestMemoryStoreLatest(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	if _, err := s.Latest(ctx, testPoint); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_ = s.Save(ctx, testPoint, sampleDoc("a"))
	_ = s.Save(ctx, testPoint, sampleDoc("b"))

	doc, err := s.Latest(ctx, testPoint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Metadata.RunID != "b" {
		t.Fatalf("expected latest run b, got %s", doc.Metadata.RunID)
	}
}

func TestMemoryStoreMaxAge(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	now := time.Date(2025, 7, 18, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_ = s.Save(ctx, testPoint, sampleDoc("a"))

	now = now.Add(2 * time.Hour)
	if _, err := s.Latest(ctx, testPoint); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected stale document to be ErrNotFound, got %v", err)
	}
	if removed := s.Prune(); removed != 1 {
		t.Fatalf("expected 1 pruned document, got %d", removed)
	}
}

func TestFileStoreWritesArtifact(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "api", "forecast")
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	if _, err := s.Latest(ctx, testPoint); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first save, got %v", err)
	}

	if err := s.Save(ctx, testPoint, sampleDoc("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(dir, "33_51_-95_14_7day.json")
	if s.Path(testPoint) != path {
		t.Fatalf("unexpected path %s", s.Path(testPoint))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("artifact is not valid json: %v", err)
	}
	days := raw["days"].([]any)
	day := days[0].(map[string]any)
	if day["pop"] != nil {
		t.Errorf("expected pop to serialize as null, got %v", day["pop"])
	}
	flags := day["sourceFlags"].(map[string]any)
	if flags["nwsTempDay"] != true {
		t.Errorf("expected sourceFlags.nwsTempDay=true, got %v", flags["nwsTempDay"])
	}

	doc, err := s.Latest(ctx, testPoint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Metadata.RunID != "a" || *doc.Days[0].HighTemp != 95 {
		t.Fatalf("unexpected document %+v", doc)
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

type fakeRedis struct {
	data map[string][]byte
	ttl  time.Duration
	err  error
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = value.([]byte)
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisStore(t *testing.T) {
	client := &fakeRedis{data: make(map[string][]byte)}
	s := NewRedisStore(client, 6*time.Hour)
	ctx := context.Background()

	if _, err := s.Latest(ctx, testPoint); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Save(ctx, testPoint, sampleDoc("r")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := client.data["forecast:33_51_-95_14"]; !ok {
		t.Fatalf("expected key forecast:33_51_-95_14, got %v", client.data)
	}
	if client.ttl != 6*time.Hour {
		t.Fatalf("expected ttl 6h, got %v", client.ttl)
	}

	doc, err := s.Latest(ctx, testPoint)
	if err != nil || doc.Metadata.RunID != "r" {
		t.Fatalf("unexpected result %+v, %v", doc, err)
	}

	client.err = errors.New("connection refused")
	if _, err := s.Latest(ctx, testPoint); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a connection error, got %v", err)
	}
}

func TestMultiStoreReadsFirstHit(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore(0)
	files, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	m := NewMultiStore(mem, files)

	if err := m.Save(ctx, testPoint, sampleDoc("m")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := files.Latest(ctx, testPoint); err != nil {
		t.Fatalf("expected file store to receive the document, got %v", err)
	}

	// A cold cache falls through to the files.
	cold := NewMultiStore(NewMemoryStore(0), files)
	doc, err := cold.Latest(ctx, testPoint)
	if err != nil || doc.Metadata.RunID != "m" {
		t.Fatalf("expected fall-through read, got %+v, %v", doc, err)
	}

	empty := NewMultiStore(NewMemoryStore(0))
	if _, err := empty.Latest(ctx, testPoint); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTropicalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api", "tropical_summary.json")
	s := NewTropicalFile(path)
	ctx := context.Background()

	if _, err := s.LatestSummary(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	summary := tropical.Summary{
		GeneratedAt: time.Date(2025, 7, 18, 12, 0, 0, 0, time.UTC),
		Basins:      []string{"WP"},
		Storms:      map[string]tropical.Storm{"[0]": {Name: "Wipha", Basin: "West Pacific"}},
	}
	if err := s.SaveSummary(ctx, summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("summary not written: %v", err)
	}
	var doc struct {
		Storms map[string]map[string]any `json:"storms"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("summary is not valid json: %v", err)
	}
	if doc.Storms["[0]"]["name"] != "Wipha" {
		t.Fatalf("unexpected storms %v", doc.Storms)
	}

	got, err := s.LatestSummary(ctx)
	if err != nil || got.Storms["[0]"].Basin != "West Pacific" {
		t.Fatalf("unexpected summary %+v, %v", got, err)
	}
}

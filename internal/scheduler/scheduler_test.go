package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/forecast-blend/internal/catalog"
	"github.com/i474232898/forecast-blend/internal/forecast"
	"github.com/i474232898/forecast-blend/internal/tropical"
)

type fakeRefresher struct {
	mu     sync.Mutex
	calls  int
	points []forecast.Point
	err    error
	done   chan struct{}
}

func (f *fakeRefresher) RefreshAll(_ context.Context, points []forecast.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.points = points
	if f.done != nil && f.calls == 1 {
		close(f.done)
	}
	return f.err
}

// blockingRefresher waits for its context and reports why it returned.
type blockingRefresher struct {
	started chan struct{}
	result  chan error
}

func (b *blockingRefresher) RefreshAll(ctx context.Context, _ []forecast.Point) error {
	close(b.started)
	<-ctx.Done()
	b.result <- ctx.Err()
	return ctx.Err()
}

type fakeIndexer struct{ calls int }

func (f *fakeIndexer) Write() (catalog.Index, error) {
	f.calls++
	return catalog.Index{}, nil
}

type fakePruner struct{ calls int }

func (f *fakePruner) Prune() int {
	f.calls++
	return 1
}

type fakeTropical struct{ calls int }

func (f *fakeTropical) Refresh(context.Context) (tropical.Summary, error) {
	f.calls++
	return tropical.Summary{}, errors.New("basin WP unavailable")
}

var points = []forecast.Point{{Lat: "33.51", Lon: "-95.14"}}

func TestRunOnceRefreshesIndexesAndPrunes(t *testing.T) {
	r := &fakeRefresher{err: errors.New("twc down")}
	ix := &fakeIndexer{}
	pr := &fakePruner{}
	tr := &fakeTropical{}

	s := New(points, time.Hour, r, WithIndexer(ix), WithPruner(pr), WithTropical(tr))
	s.RunOnce(context.Background())

	if r.calls != 1 || len(r.points) != 1 {
		t.Fatalf("expected one refresh of one point, got %d calls with %v", r.calls, r.points)
	}
	// A failed refresh still rebuilds the index from what is on disk.
	if ix.calls != 1 {
		t.Errorf("expected index rebuild, got %d calls", ix.calls)
	}
	if tr.calls != 1 {
		t.Errorf("expected tropical refresh, got %d calls", tr.calls)
	}
	if pr.calls != 1 {
		t.Errorf("expected prune, got %d calls", pr.calls)
	}
}

func TestStartRunsImmediately(t *testing.T) {
	r := &fakeRefresher{done: make(chan struct{})}
	s := New(points, time.Hour, r)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		t.Fatal("expected the first refresh to run on start")
	}
}

func TestCancelingParentContextStopsInFlightRun(t *testing.T) {
	r := &blockingRefresher{started: make(chan struct{}), result: make(chan error, 1)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(points, time.Hour, r)
	if err := s.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	select {
	case <-r.started:
	case <-time.After(5 * time.Second):
		t.Fatal("expected the first refresh to start")
	}

	cancel()
	select {
	case err := <-r.result:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("expected the in-flight refresh to be canceled")
	}
}

func TestStartWithoutWork(t *testing.T) {
	r := &fakeRefresher{}
	s := New(nil, time.Hour, r)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
	if r.calls != 0 {
		t.Fatalf("expected no refresh, got %d", r.calls)
	}
}

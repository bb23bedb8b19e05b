package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/forecast-blend/internal/catalog"
	"github.com/i474232898/forecast-blend/internal/forecast"
	"github.com/i474232898/forecast-blend/internal/tropical"
)

// Refresher refreshes the forecast of every given point.
type Refresher interface {
	RefreshAll(ctx context.Context, points []forecast.Point) error
}

// IndexWriter rebuilds the artifact index.
type IndexWriter interface {
	Write() (catalog.Index, error)
}

// Pruner drops stale cached documents.
type Pruner interface {
	Prune() int
}

// TropicalRefresher rebuilds the tropical summary.
type TropicalRefresher interface {
	Refresh(ctx context.Context) (tropical.Summary, error)
}

// Scheduler periodically refreshes the configured points and rebuilds the index.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	indexer   IndexWriter
	pruner    Pruner
	tropical  TropicalRefresher
	points    []forecast.Point
	interval  time.Duration
	timeout   time.Duration
	logger    *zap.Logger

	// ctx is the parent of every job run; Stop cancels it.
	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithIndexer rebuilds index.json after every refresh.
func WithIndexer(ix IndexWriter) Option {
	return func(s *Scheduler) { s.indexer = ix }
}

// WithPruner prunes a cache after every refresh.
func WithPruner(p Pruner) Option {
	return func(s *Scheduler) { s.pruner = p }
}

// WithTropical refreshes the tropical summary after every forecast refresh.
func WithTropical(t TropicalRefresher) Option {
	return func(s *Scheduler) { s.tropical = t }
}

// WithLogger sets the scheduler logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// New creates a new Scheduler.
func New(points []forecast.Point, interval time.Duration, refresher Refresher, opts ...Option) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	s := &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		points:    points,
		interval:  interval,
		timeout:   2 * time.Minute,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately. Runs are canceled when ctx is done or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.points) == 0 && s.tropical == nil {
		s.logger.Warn("nothing to schedule")
		return nil
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		runCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()
		s.RunOnce(runCtx)
	})
	if err != nil {
		s.cancel()
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", zap.Duration("interval", s.interval), zap.Int("points", len(s.points)))
	return nil
}

// RunOnce refreshes every point, rebuilds the index, then refreshes the
// tropical summary. Failures are logged; failed outputs keep their previous file.
func (s *Scheduler) RunOnce(ctx context.Context) {
	started := time.Now()
	s.logger.Info("running forecast refresh job")

	if len(s.points) > 0 {
		if err := s.refresher.RefreshAll(ctx, s.points); err != nil {
			s.logger.Error("forecast refresh failed", zap.Error(err))
		}
	}

	if s.indexer != nil {
		idx, err := s.indexer.Write()
		if err != nil {
			s.logger.Error("index rebuild failed", zap.Error(err))
		} else {
			s.logger.Debug("index rebuilt", zap.Int("artifacts", len(idx.Points)))
		}
	}

	if s.tropical != nil && ctx.Err() == nil {
		if _, err := s.tropical.Refresh(ctx); err != nil {
			s.logger.Error("tropical refresh failed", zap.Error(err))
		}
	}

	if s.pruner != nil {
		if n := s.pruner.Prune(); n > 0 {
			s.logger.Debug("pruned stale cached documents", zap.Int("removed", n))
		}
	}

	s.logger.Info("completed forecast refresh job", zap.Duration("took", time.Since(started)))
}

// Stop cancels any in-flight run and stops the scheduler.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

package tropical

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/forecast-blend/internal/metrics"
)

var (
	// ErrNoSource is returned when no weather.com key is configured.
	ErrNoSource = errors.New("no tropical source configured")
	// ErrUnavailable wraps a failed cone fetch; the previous summary is kept.
	ErrUnavailable = errors.New("tropical cone unavailable")
)

// Source fetches the active storm cones of a basin.
type Source interface {
	Name() string
	FetchTropical(ctx context.Context, basin string) (ConeResponse, error)
}

// Store persists the latest summary.
type Store interface {
	SaveSummary(ctx context.Context, s Summary) error
	LatestSummary(ctx context.Context) (Summary, error)
}

// Service refreshes the tropical summary for a fixed set of basins.
type Service struct {
	source  Source
	store   Store
	basins  []string
	logger  *zap.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

func NewService(source Source, store Store, basins []string, logger *zap.Logger, collector *metrics.Collector) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:  source,
		store:   store,
		basins:  basins,
		logger:  logger,
		metrics: collector,
		now:     time.Now,
	}
}

// Refresh fetches every basin in order and stores one combined summary.
// Any failed basin aborts the refresh so a partial summary never replaces a full one.
func (s *Service) Refresh(ctx context.Context) (Summary, error) {
	summary, err := s.refresh(ctx)
	s.metrics.ObserveRefresh("tropical", s.now().UTC(), err)
	return summary, err
}

func (s *Service) refresh(ctx context.Context) (Summary, error) {
	if s.source == nil {
		return Summary{}, ErrNoSource
	}

	var features []Feature
	for _, basin := range s.basins {
		started := time.Now()
		cone, err := s.source.FetchTropical(ctx, basin)
		s.metrics.ObserveUpstream(s.source.Name()+"_tropical", started, err)
		if err != nil {
			s.logger.Error("tropical cone fetch failed; keeping last summary", zap.String("basin", basin), zap.Error(err))
			return Summary{}, fmt.Errorf("%w for basin %s: %w", ErrUnavailable, basin, err)
		}
		features = append(features, cone.Features...)
	}

	summary := Summary{
		GeneratedAt: s.now().UTC(),
		Basins:      append([]string(nil), s.basins...),
		Storms:      ParseStorms(features),
	}

	if s.store != nil {
		if err := s.store.SaveSummary(ctx, summary); err != nil {
			return summary, fmt.Errorf("save tropical summary: %w", err)
		}
	}

	s.logger.Info("tropical summary refreshed", zap.Strings("basins", s.basins), zap.Int("storms", len(summary.Storms)))
	return summary, nil
}

// Latest delegates to the underlying store.
func (s *Service) Latest(ctx context.Context) (Summary, error) {
	if s.store == nil {
		return Summary{}, fmt.Errorf("no tropical store configured")
	}
	return s.store.LatestSummary(ctx)
}

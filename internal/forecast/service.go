package forecast

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/forecast-blend/internal/metrics"
)

var (
	// ErrNoCommercialSource is returned when the service has no weather.com source.
	ErrNoCommercialSource = errors.New("no commercial forecast source configured")
	// ErrCommercialUnavailable wraps a failed weather.com fetch; without it there is nothing to blend.
	ErrCommercialUnavailable = errors.New("commercial forecast unavailable")
)

// Attribution is published with every document.
var Attribution = map[string]string{
	"TWC": "Data courtesy The Weather Company / weather.com",
	"NWS": "Data courtesy National Weather Service",
}

// Service orchestrates fetching from both providers, blending and persisting documents.
type Service struct {
	gov      GovernmentSource
	com      CommercialSource
	store    Store
	dayLimit int

	logger  *zap.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics sets the metrics collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Service) { s.metrics = c }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new Service. gov may be nil, in which case every day
// falls back to weather.com values.
func NewService(gov GovernmentSource, com CommercialSource, store Store, dayLimit int, opts ...Option) *Service {
	if dayLimit <= 0 {
		dayLimit = DefaultDayLimit
	}
	s := &Service{
		gov:      gov,
		com:      com,
		store:    store,
		dayLimit: dayLimit,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DayLimit returns the configured number of output days.
func (s *Service) DayLimit() int {
	return s.dayLimit
}

// Refresh fetches both providers concurrently for the point, blends the
// result and stores it. A failed NWS fetch degrades to weather.com-only
// values; a failed weather.com fetch aborts the refresh and leaves the last
// stored document in place.
func (s *Service) Refresh(ctx context.Context, p Point) (Document, error) {
	doc, err := s.refresh(ctx, p)
	s.metrics.ObserveRefresh(p.Key(), s.now().UTC(), err)
	return doc, err
}

func (s *Service) refresh(ctx context.Context, p Point) (Document, error) {
	log := s.logger.With(zap.String("point", p.Key()))

	lat, lon, err := p.Coordinates()
	if err != nil {
		return Document{}, err
	}
	if s.com == nil {
		return Document{}, ErrNoCommercialSource
	}

	var (
		wg             sync.WaitGroup
		nwsRaw         NWSForecastResponse
		twcRaw         TWCDailyResponse
		nwsErr, twcErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		started := time.Now()
		twcRaw, twcErr = s.com.FetchDaily(ctx, p)
		s.metrics.ObserveUpstream(s.com.Name(), started, twcErr)
	}()

	if s.gov != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started := time.Now()
			nwsRaw, nwsErr = s.gov.FetchPeriods(ctx, p)
			s.metrics.ObserveUpstream(s.gov.Name(), started, nwsErr)
		}()
	}

	wg.Wait()

	if twcErr != nil {
		log.Error("commercial forecast fetch failed; keeping last stored document", zap.Error(twcErr))
		return Document{}, fmt.Errorf("%w for %s: %w", ErrCommercialUnavailable, p.Key(), twcErr)
	}
	if nwsErr != nil {
		log.Warn("government forecast fetch failed; blending commercial values only", zap.Error(nwsErr))
		nwsRaw = NWSForecastResponse{}
	}

	periods := NormalizeNWS(nwsRaw)
	if limit := s.dayLimit * 2; len(periods) > limit {
		periods = periods[:limit]
	}
	twcDays := NormalizeTWC(twcRaw)

	days := Blend(CollapseDaily(periods), twcDays, s.dayLimit)

	joined := 0
	for i, d := range days {
		switch {
		case d.Date == nil:
			log.Warn("commercial day has no valid timestamp; using commercial values", zap.Int("index", i))
		case d.SourceFlags.NWSPoP:
			joined++
		}
	}
	s.metrics.ObserveBlend(joined, len(days)-joined)

	doc := Document{
		Metadata: Metadata{
			RunID:         uuid.NewString(),
			GeneratedAt:   s.now().UTC(),
			Lat:           lat,
			Lon:           lon,
			DaysRequested: s.dayLimit,
			Sources:       []string{"TWC", "NWS"},
			Attribution:   maps.Clone(Attribution),
		},
		Days: days,
	}

	if s.store != nil {
		if err := s.store.Save(ctx, p, doc); err != nil {
			return doc, fmt.Errorf("save forecast for %s: %w", p.Key(), err)
		}
	}

	log.Info("forecast refreshed",
		zap.String("run_id", doc.Metadata.RunID),
		zap.Int("periods", len(periods)),
		zap.Int("days", len(days)),
		zap.Int("joined", joined),
	)
	return doc, nil
}

// RefreshAll refreshes every point concurrently and returns the joined errors.
func (s *Service) RefreshAll(ctx context.Context, points []Point) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, p := range points {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Refresh(ctx, p); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Latest delegates to the underlying store.
func (s *Service) Latest(ctx context.Context, p Point) (Document, error) {
	if s.store == nil {
		return Document{}, fmt.Errorf("no forecast store configured")
	}
	return s.store.Latest(ctx, p)
}

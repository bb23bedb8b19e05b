package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/i474232898/forecast-blend/internal/catalog"
	"github.com/i474232898/forecast-blend/internal/config"
	"github.com/i474232898/forecast-blend/internal/forecast"
	"github.com/i474232898/forecast-blend/internal/forecast/providers"
	"github.com/i474232898/forecast-blend/internal/logging"
	"github.com/i474232898/forecast-blend/internal/metrics"
	"github.com/i474232898/forecast-blend/internal/store"
	"github.com/i474232898/forecast-blend/internal/tropical"
)

const metricsNamespace = "forecast_blend"

// application bundles the components shared by every command.
type application struct {
	cfg      *config.AppConfig
	logger   *zap.Logger
	registry *prometheus.Registry
	service  *forecast.Service
	files    *store.FileStore
	cache    *store.MemoryStore // nil when Redis is the cache
	indexer  *catalog.Indexer
	tropical *tropical.Service // nil without a weather.com key or basins

	closers []func() error
}

// newApplication loads the configuration and builds providers, stores and the service.
func newApplication(ctx context.Context) (*application, error) {
	dotenvErr := config.LoadDotenv()

	cfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	if dotenvErr != nil {
		logger.Info("no .env file loaded", zap.Error(dotenvErr))
	}

	a := &application{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		indexer:  catalog.NewIndexer(cfg.OutDir),
	}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(metricsNamespace, a.registry)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	// Providers with resilience (rate limit + backoff + circuit breaker).
	nws := providers.NewNWSProvider(httpClient, providers.NWSOptions{
		UserAgent: cfg.NWSUserAgent,
		RPS:       cfg.NWSRPS,
	})
	var twc forecast.CommercialSource
	if cfg.TWCAPIKey != "" {
		twcProvider := providers.NewTWCProvider(httpClient, cfg.TWCAPIKey, providers.TWCOptions{
			UserAgent: cfg.NWSUserAgent,
			RPS:       cfg.TWCRPS,
		})
		twc = twcProvider
		if len(cfg.TropicalBasins) > 0 {
			a.tropical = tropical.NewService(twcProvider, store.NewTropicalFile(cfg.TropicalFile),
				cfg.TropicalBasins, logger.Named("tropical"), collector)
		}
	} else {
		logger.Warn("API_TWC is not set; refreshes will fail until a weather.com key is configured")
	}

	a.files, err = store.NewFileStore(cfg.OutDir)
	if err != nil {
		return nil, err
	}

	// Cache in front of the artifacts: Redis when configured, memory otherwise.
	var cache forecast.Store
	if cfg.RedisURL != "" {
		client, err := store.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		cache = store.NewRedisStore(client, cfg.CacheMaxAge)
	} else {
		a.cache = store.NewMemoryStore(cfg.CacheMaxAge)
		cache = a.cache
	}

	a.service = forecast.NewService(nws, twc, store.NewMultiStore(cache, a.files), cfg.DaysLimit,
		forecast.WithLogger(logger.Named("forecast")),
		forecast.WithMetrics(collector),
	)
	return a, nil
}

func (a *application) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the application's Prometheus collectors.
// A nil *Collector is valid and records nothing.
type Collector struct {
	UpstreamRequestsTotal *prometheus.CounterVec
	UpstreamDuration      *prometheus.HistogramVec
	RefreshesTotal        *prometheus.CounterVec
	BlendedDaysTotal      *prometheus.CounterVec
	LastRefreshTimestamp  *prometheus.GaugeVec
}

// NewCollector registers the collectors with reg under namespace.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		UpstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Upstream forecast fetches by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),

		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_duration_seconds",
				Help:      "Upstream forecast fetch duration in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
			},
			[]string{"provider"},
		),

		RefreshesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refreshes_total",
				Help:      "Forecast refreshes by outcome",
			},
			[]string{"outcome"},
		),

		BlendedDaysTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "blended_days_total",
				Help:      "Blended forecast days by whether they joined an NWS day",
			},
			[]string{"joined"},
		),

		LastRefreshTimestamp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_refresh_timestamp_seconds",
				Help:      "Unix time of the last successful refresh per point",
			},
			[]string{"point"},
		),
	}
}

// ObserveUpstream records one upstream fetch.
func (c *Collector) ObserveUpstream(provider string, started time.Time, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.UpstreamRequestsTotal.WithLabelValues(provider, outcome).Inc()
	c.UpstreamDuration.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}

// ObserveRefresh records the outcome of a refresh.
func (c *Collector) ObserveRefresh(point string, at time.Time, err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.RefreshesTotal.WithLabelValues("error").Inc()
		return
	}
	c.RefreshesTotal.WithLabelValues("ok").Inc()
	c.LastRefreshTimestamp.WithLabelValues(point).Set(float64(at.Unix()))
}

// ObserveBlend counts blended days by whether they matched an NWS day.
func (c *Collector) ObserveBlend(joined, fallback int) {
	if c == nil {
		return
	}
	c.BlendedDaysTotal.WithLabelValues("true").Add(float64(joined))
	c.BlendedDaysTotal.WithLabelValues("false").Add(float64(fallback))
}

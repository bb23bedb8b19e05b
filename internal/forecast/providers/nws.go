package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/sony/gobreaker"

	"github.com/i474232898/forecast-blend/internal/forecast"
)

const nwsDefaultBaseURL = "https://api.weather.gov"

// NWSProvider implements forecast.GovernmentSource for api.weather.gov.
//
// A forecast takes two calls: /points/{lat},{lon} resolves the gridpoint
// forecast URL, which is then fetched for its day/night periods. Resolved
// URLs are remembered per point.
type NWSProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker

	mu           sync.RWMutex
	forecastURLs map[string]string
}

// NWSOptions configures an NWSProvider.
type NWSOptions struct {
	BaseURL   string
	UserAgent string
	RPS       float64
	Backoff   *BackoffConfig
}

func NewNWSProvider(client *http.Client, opts NWSOptions) *NWSProvider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = nwsDefaultBaseURL
	}
	backoff := DefaultBackoff
	if opts.Backoff != nil {
		backoff = *opts.Backoff
	}

	return &NWSProvider{
		name:    "nws",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client:    client,
			Backoff:   backoff,
			Limiter:   newLimiter(opts.RPS),
			UserAgent: opts.UserAgent,
			Accept:    "application/geo+json",
		},
		circuit:      newCircuitBreaker("nws"),
		forecastURLs: make(map[string]string),
	}
}

func (p *NWSProvider) Name() string {
	return p.name
}

// FetchPeriods returns the raw day/night forecast for the point.
func (p *NWSProvider) FetchPeriods(ctx context.Context, pt forecast.Point) (forecast.NWSForecastResponse, error) {
	forecastURL, err := p.forecastURL(ctx, pt)
	if err != nil {
		return forecast.NWSForecastResponse{}, err
	}

	var payload forecast.NWSForecastResponse
	if err := getJSON(ctx, p.httpCfg, p.circuit, forecastURL, &payload); err != nil {
		return forecast.NWSForecastResponse{}, fmt.Errorf("nws forecast: %w", err)
	}
	return payload, nil
}

func (p *NWSProvider) forecastURL(ctx context.Context, pt forecast.Point) (string, error) {
	key := pt.Key()

	p.mu.RLock()
	u, ok := p.forecastURLs[key]
	p.mu.RUnlock()
	if ok {
		return u, nil
	}

	var meta struct {
		Properties struct {
			Forecast string `json:"forecast"`
		} `json:"properties"`
	}
	pointsURL := fmt.Sprintf("%s/points/%s,%s", p.baseURL, strings.TrimSpace(pt.Lat), strings.TrimSpace(pt.Lon))
	if err := getJSON(ctx, p.httpCfg, p.circuit, pointsURL, &meta); err != nil {
		return "", fmt.Errorf("nws points lookup: %w", err)
	}
	if meta.Properties.Forecast == "" {
		return "", fmt.Errorf("nws points lookup for %s returned no forecast url", key)
	}

	p.mu.Lock()
	p.forecastURLs[key] = meta.Properties.Forecast
	p.mu.Unlock()

	return meta.Properties.Forecast, nil
}

var _ forecast.GovernmentSource = (*NWSProvider)(nil)

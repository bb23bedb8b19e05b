package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/forecast-blend/internal/forecast"
	"github.com/i474232898/forecast-blend/internal/tropical"
)

const (
	twcDefaultBaseURL     = "https://api.weather.com/v3/wx/forecast/daily/15day"
	twcDefaultTropicalURL = "https://api.weather.com/v3/tropical/cone"
)

// TWCProvider implements forecast.CommercialSource for the weather.com v3 daily
// forecast and tropical.Source for the v3 tropical cone.
type TWCProvider struct {
	name        string
	apiKey      string
	baseURL     string
	tropicalURL string
	httpCfg     HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

// TWCOptions configures a TWCProvider.
type TWCOptions struct {
	BaseURL     string
	TropicalURL string
	UserAgent   string
	RPS         float64
	Backoff     *BackoffConfig
}

func NewTWCProvider(client *http.Client, apiKey string, opts TWCOptions) *TWCProvider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = twcDefaultBaseURL
	}
	tropicalURL := opts.TropicalURL
	if tropicalURL == "" {
		tropicalURL = twcDefaultTropicalURL
	}
	backoff := DefaultBackoff
	if opts.Backoff != nil {
		backoff = *opts.Backoff
	}

	return &TWCProvider{
		name:        "twc",
		apiKey:      apiKey,
		baseURL:     baseURL,
		tropicalURL: tropicalURL,
		httpCfg: HTTPClientConfig{
			Client:    client,
			Backoff:   backoff,
			Limiter:   newLimiter(opts.RPS),
			UserAgent: opts.UserAgent,
			Accept:    "application/json",
		},
		circuit:     newCircuitBreaker("twc"),
	}
}

func (p *TWCProvider) Name() string {
	return p.name
}

// FetchDaily returns the raw parallel-array daily forecast for the point.
func (p *TWCProvider) FetchDaily(ctx context.Context, pt forecast.Point) (forecast.TWCDailyResponse, error) {
	if p.apiKey == "" {
		return forecast.TWCDailyResponse{}, fmt.Errorf("twc api key is not configured")
	}

	values := url.Values{}
	values.Set("geocode", fmt.Sprintf("%s,%s", strings.TrimSpace(pt.Lat), strings.TrimSpace(pt.Lon)))
	values.Set("format", "json")
	values.Set("units", "e")
	values.Set("language", "en-US")
	values.Set("apiKey", p.apiKey)

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())

	var payload forecast.TWCDailyResponse
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		// The URL carries the API key; report the endpoint only.
		return forecast.TWCDailyResponse{}, fmt.Errorf("twc daily forecast: %w", redact(err, p.apiKey))
	}
	return payload, nil
}

// FetchTropical returns the active storm cones of a basin (NA, WP, EP, IO, SH, SP).
// Speeds are requested in mph.
func (p *TWCProvider) FetchTropical(ctx context.Context, basin string) (tropical.ConeResponse, error) {
	if p.apiKey == "" {
		return tropical.ConeResponse{}, fmt.Errorf("twc api key is not configured")
	}

	values := url.Values{}
	values.Set("source", "default")
	values.Set("basin", basin)
	values.Set("language", "en-US")
	values.Set("format", "json")
	values.Set("units", "e")
	values.Set("nautical", "false")
	values.Set("apiKey", p.apiKey)

	u := fmt.Sprintf("%s?%s", p.tropicalURL, values.Encode())

	var payload tropical.ConeResponse
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return tropical.ConeResponse{}, fmt.Errorf("twc tropical cone %s: %w", basin, redact(err, p.apiKey))
	}
	return payload, nil
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// redact strips secret from err's message while keeping it matchable with errors.Is.
func redact(err error, secret string) error {
	if secret == "" || !strings.Contains(err.Error(), secret) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), secret, "REDACTED"), err: err}
}

var (
	_ forecast.CommercialSource = (*TWCProvider)(nil)
	_ tropical.Source           = (*TWCProvider)(nil)
)

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/forecast-blend/internal/forecast"
)

var validate = validator.New()

type AppConfig struct {
	// Points to blend. The first one comes from BLEND_LAT/BLEND_LON.
	Points []forecast.Point `validate:"required,min=1,dive"`

	TWCAPIKey string

	// DaysLimit is the number of blended days per document.
	DaysLimit int `validate:"min=1,max=15"`

	// OutDir holds the <lat>_<lon>_7day.json artifacts and index.json.
	OutDir string `validate:"required"`

	HTTPTimeout   time.Duration `validate:"gt=0"`
	FetchInterval time.Duration `validate:"gte=1m"`

	NWSUserAgent string  `validate:"required"`
	NWSRPS       float64 `validate:"gt=0"`
	TWCRPS       float64 `validate:"gt=0"`

	// Cached documents older than this are served from the artifacts instead (0 = never stale).
	CacheMaxAge time.Duration `validate:"gte=0"`

	// RedisURL enables the shared Redis cache when set.
	RedisURL string `validate:"omitempty,url"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json console"`

	Port string `validate:"required,numeric"`

	// TropicalBasins are fetched in order into TropicalFile; empty disables the job.
	TropicalBasins []string `validate:"dive,oneof=NA WP EP IO SH SP"`
	TropicalFile   string   `validate:"required"`
}

// pointsFile is the layout of POINTS_FILE.
type pointsFile struct {
	Points []forecast.Point `yaml:"points"`
}

// LoadDotenv loads an optional .env file into the environment. The error is
// informational: callers log it once a logger exists and continue.
func LoadDotenv() error {
	return godotenv.Load()
}

// FromEnv builds and validates the configuration from the current environment.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.Points = []forecast.Point{{
		Lat: getenvDefault("BLEND_LAT", "33.51"),
		Lon: getenvDefault("BLEND_LON", "-95.14"),
	}}
	if path := os.Getenv("POINTS_FILE"); path != "" {
		extra, err := loadPointsFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Points = appendUnique(cfg.Points, extra...)
	}

	cfg.TWCAPIKey = os.Getenv("API_TWC")
	cfg.DaysLimit = getenvInt("DAYS_LIMIT", forecast.DefaultDayLimit)
	cfg.OutDir = getenvDefault("OUT_DIR", "api/forecast")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "20s"); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "1h"); err != nil {
		return nil, err
	}
	if cfg.CacheMaxAge, err = getenvDuration("CACHE_MAX_AGE", "6h"); err != nil {
		return nil, err
	}

	cfg.NWSUserAgent = getenvDefault("NWS_USER_AGENT", "forecast-blend/1.0 (+github)")
	cfg.NWSRPS = getenvFloat("NWS_RPS", 1)
	cfg.TWCRPS = getenvFloat("TWC_RPS", 2)
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "json")
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.TropicalBasins = splitList(getenvDefault("TROPICAL_BASINS", "WP"))
	cfg.TropicalFile = getenvDefault("TROPICAL_FILE", "api/tropical_summary.json")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadPointsFile(path string) ([]forecast.Point, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read POINTS_FILE: %w", err)
	}
	var pf pointsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse POINTS_FILE %s: %w", path, err)
	}
	return pf.Points, nil
}

// appendUnique skips points whose artifact would collide with one already listed.
func appendUnique(points []forecast.Point, extra ...forecast.Point) []forecast.Point {
	seen := make(map[string]bool, len(points))
	for _, p := range points {
		seen[p.Key()] = true
	}
	for _, p := range extra {
		if seen[p.Key()] {
			continue
		}
		seen[p.Key()] = true
		points = append(points, p)
	}
	return points
}

// splitList parses "WP, EP" into upper-case codes; "none" yields an empty list.
func splitList(v string) []string {
	if strings.EqualFold(strings.TrimSpace(v), "none") {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

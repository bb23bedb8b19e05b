package forecast

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/forecast-blend/internal/common"
)

// DefaultDayLimit is the number of blended days produced when no limit is configured.
const DefaultDayLimit = 7

// Point is a forecast location. Lat/Lon are kept as configured so that
// artifact names are derived from the same text the operator wrote.
type Point struct {
	Lat string `json:"lat" yaml:"lat" validate:"required,latitude"`
	Lon string `json:"lon" yaml:"lon" validate:"required,longitude"`
}

// Key returns a canonical, filesystem-safe key for this point: 33_51_-95_14.
func (p Point) Key() string {
	return common.SafeCoord(p.Lat) + "_" + common.SafeCoord(p.Lon)
}

// Coordinates parses Lat/Lon into floats.
func (p Point) Coordinates() (lat, lon float64, err error) {
	lat, err = strconv.ParseFloat(strings.TrimSpace(p.Lat), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q: %w", p.Lat, err)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(p.Lon), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q: %w", p.Lon, err)
	}
	return lat, lon, nil
}

// RawPeriod is one NWS day or night forecast period, in upstream order.
type RawPeriod struct {
	Name                       string
	StartTime                  string
	EndTime                    string
	IsDaytime                  bool
	Temperature                *float64
	TemperatureUnit            string
	ProbabilityOfPrecipitation *float64
	WindSpeed                  string
	WindDirection              string
	ShortForecast              string
	DetailedForecast           string
	Icon                       string
}

// DailySummary folds the day and night periods of one calendar date.
type DailySummary struct {
	DayName        *string
	DayTemp        *float64
	NightTemp      *float64
	PoP            float64
	IconDay        *string
	IconNight      *string
	NarrativeDay   string
	NarrativeNight string
}

// TwcDay is one day of the weather.com daily forecast, zipped from its parallel arrays.
type TwcDay struct {
	ValidTimeUtc *int64
	DateUtcIso   *string // e.g. 2025-07-18T12:00:00Z; nil when the epoch is missing or invalid
	DayOfWeek    *string
	TempMax      *float64
	TempMin      *float64
	QPF          *float64
	Narrative    *string
}

// Icons are the NWS day/night icon URLs of a blended day.
type Icons struct {
	Day   *string `json:"day"`
	Night *string `json:"night"`
}

// SourceFlags records which fields of a BlendedDay came from the NWS match.
type SourceFlags struct {
	NWSTempDay   bool `json:"nwsTempDay"`
	NWSTempNight bool `json:"nwsTempNight"`
	NWSPoP       bool `json:"nwsPop"`
	NWSNarrative bool `json:"nwsNarrative"`
	NWSIconDay   bool `json:"nwsIconDay"`
	NWSIconNight bool `json:"nwsIconNight"`
}

// BlendedDay is one day of the published forecast.
type BlendedDay struct {
	Date        *string     `json:"date"`
	DayOfWeek   *string     `json:"dayOfWeek"`
	HighTemp    *float64    `json:"highTemp"`
	LowTemp     *float64    `json:"lowTemp"`
	QPF         *float64    `json:"qpf"`
	PoP         *float64    `json:"pop"`
	Narrative   string      `json:"narrative"`
	Icons       Icons       `json:"icons"`
	SourceFlags SourceFlags `json:"sourceFlags"`
}

// Metadata describes how and when a Document was produced.
type Metadata struct {
	RunID         string            `json:"run_id"`
	GeneratedAt   time.Time         `json:"generated_at"` // always UTC
	Lat           float64           `json:"lat"`
	Lon           float64           `json:"lon"`
	DaysRequested int               `json:"days_requested"`
	Sources       []string          `json:"sources"`
	Attribution   map[string]string `json:"attribution"`
}

// Document is the persisted forecast artifact for a single point.
type Document struct {
	Metadata Metadata     `json:"metadata"`
	Days     []BlendedDay `json:"days"`
}

// Truncate returns a copy of the document holding at most n days.
func (d Document) Truncate(n int) Document {
	if n <= 0 || n >= len(d.Days) {
		return d
	}
	out := d
	out.Days = append([]BlendedDay(nil), d.Days[:n]...)
	return out
}

package tropical

import (
	"encoding/json"
	"time"

	"github.com/i474232898/forecast-blend/internal/forecast"
)

// ConeResponse is the subset of the weather.com v3 tropical cone GeoJSON we read.
type ConeResponse struct {
	Features []Feature `json:"features"`
}

// Feature is one active storm.
type Feature struct {
	Geometry   json.RawMessage `json:"geometry"`
	Properties Properties      `json:"properties"`
}

type Properties struct {
	Basin              string          `json:"basin"`
	StormName          string          `json:"stormName"`
	AlternateStormName string          `json:"alternateStormName"`
	StormNumber        json.RawMessage `json:"stormNumber"`
	StormID            string          `json:"stormId"`
	IssueDateTime      string          `json:"issueDateTime"`
	Source             string          `json:"source"`
	CurrentPosition    Position        `json:"currentPosition"`
}

// Position is the storm's current fix. Numeric fields tolerate nulls and junk.
type Position struct {
	Latitude             forecast.Quantity `json:"latitude"`
	LatitudeHemisphere   string            `json:"latitudeHemisphere"`
	Longitude            forecast.Quantity `json:"longitude"`
	LongitudeHemisphere  string            `json:"longitudeHemisphere"`
	StormType            string            `json:"stormType"`
	StormTypeCode        string            `json:"stormTypeCode"`
	MaximumSustainedWind forecast.Quantity `json:"maximumSustainedWind"`
	WindGust             forecast.Quantity `json:"windGust"`
	MinimumPressure      forecast.Quantity `json:"minimumPressure"`
	Heading              Heading           `json:"heading"`
}

type Heading struct {
	StormSpeed             forecast.Quantity `json:"stormSpeed"`
	StormDirection         forecast.Quantity `json:"stormDirection"`
	StormDirectionCardinal string            `json:"stormDirectionCardinal"`
}

// Storm is one entry of the published tropical summary.
type Storm struct {
	Basin                 string          `json:"basin"`
	BasinAbbreviation     string          `json:"basinAbbreviation"`
	Name                  string          `json:"name"`
	Intensity             string          `json:"intensity"`
	IntensityAbbreviation string          `json:"intensityAbbreviation"`
	SustainedWinds        string          `json:"sustainedWinds"`
	SustainedGusts        string          `json:"sustainedGusts"`
	Position              string          `json:"position"`
	MovementSpeed         string          `json:"movementSpeed"`
	LastUpdate            string          `json:"lastUpdate"`
	IssuedBy              string          `json:"issuedBy"`
	IssuedByFormal        string          `json:"issuedByFormal"`
	MovementDirection     *float64        `json:"movementDirection"`
	MovementCardinal      string          `json:"movementCardinal"`
	MovementDegrees       *float64        `json:"movementDegrees"`
	StormNumber           json.RawMessage `json:"stormNumber"`
	StormBaroPressure     *string         `json:"stormBaroPressure"`
	StormBaroMillibars    *string         `json:"stormBaroMillibars"`
	StormID               string          `json:"stormId"`
	ForecastCone          json.RawMessage `json:"forecastCone,omitempty"`
	APICourtesy           string          `json:"apiCourtesy"`
}

// Summary is the tropical_summary.json document. Storm keys are "[0]", "[1]", ...
// in upstream order across all requested basins.
type Summary struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Basins      []string         `json:"basins"`
	Storms      map[string]Storm `json:"storms"`
}

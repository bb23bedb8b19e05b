package tropical

import (
	"fmt"
	"strconv"

	"github.com/i474232898/forecast-blend/internal/common"
)

const (
	// mbToInHg converts millibars to inches of mercury.
	mbToInHg = 0.02953

	courtesy = "Data courtesy The Weather Company / weather.com"
	unknown  = "Unknown"
)

// Basins maps basin codes to their names.
var Basins = map[string]string{
	"NA": "North Atlantic",
	"WP": "West Pacific",
	"EP": "East Pacific",
	"IO": "Indian Ocean",
	"SH": "Southern Hemisphere",
	"SP": "South Pacific",
}

var agencies = map[string]string{
	"NHC":  "National Hurricane Center",
	"JTWC": "Joint Typhoon Warning Center",
	"CPHC": "Central Pacific Hurricane Center",
	"JMA":  "Japan Meteorological Agency",
}

// BasinName returns the full name of a basin code, or "Unknown".
func BasinName(code string) string {
	if name, ok := Basins[code]; ok {
		return name
	}
	return unknown
}

// AgencyName returns the full name of an issuing agency code, or "Unknown".
func AgencyName(code string) string {
	if name, ok := agencies[code]; ok {
		return name
	}
	return unknown
}

// ParseStorms turns cone features into summary entries keyed "[i]".
func ParseStorms(features []Feature) map[string]Storm {
	storms := make(map[string]Storm, len(features))
	for i, f := range features {
		storms[fmt.Sprintf("[%d]", i)] = parseStorm(f)
	}
	return storms
}

func parseStorm(f Feature) Storm {
	p := f.Properties
	pos := p.CurrentPosition

	name := p.StormName
	if name == "" {
		name = p.AlternateStormName
	}
	if name == "" {
		name = unknown
	}

	return Storm{
		Basin:                 BasinName(p.Basin),
		BasinAbbreviation:     p.Basin,
		Name:                  name,
		Intensity:             pos.StormType,
		IntensityAbbreviation: pos.StormTypeCode,
		SustainedWinds:        speed(pos.MaximumSustainedWind.Value),
		SustainedGusts:        speed(pos.WindGust.Value),
		Position:              position(pos),
		MovementSpeed:         speed(pos.Heading.StormSpeed.Value),
		LastUpdate:            p.IssueDateTime,
		IssuedBy:              p.Source,
		IssuedByFormal:        AgencyName(p.Source),
		MovementDirection:     common.Clone(pos.Heading.StormDirection.Value),
		MovementCardinal:      pos.Heading.StormDirectionCardinal,
		MovementDegrees:       common.Clone(pos.Heading.StormDirection.Value),
		StormNumber:           p.StormNumber,
		StormBaroPressure:     PressureInHg(pos.MinimumPressure.Value),
		StormBaroMillibars:    PressureMb(pos.MinimumPressure.Value),
		StormID:               p.StormID,
		ForecastCone:          f.Geometry,
		APICourtesy:           courtesy,
	}
}

// PressureInHg formats a millibar reading as "29.35 inHg"; nil stays nil.
func PressureInHg(mb *float64) *string {
	if mb == nil {
		return nil
	}
	s := fmt.Sprintf("%.2f inHg", *mb*mbToInHg)
	return &s
}

// PressureMb formats a millibar reading as "994mb"; nil stays nil.
func PressureMb(mb *float64) *string {
	if mb == nil {
		return nil
	}
	s := formatNumber(*mb) + "mb"
	return &s
}

// speed formats a wind or movement speed; a missing value reads as 0 mph.
func speed(v *float64) string {
	n := 0.0
	if v != nil {
		n = *v
	}
	return formatNumber(n) + " mph"
}

func position(pos Position) string {
	latHem := pos.LatitudeHemisphere
	if latHem == "" {
		latHem = "N"
	}
	lonHem := pos.LongitudeHemisphere
	if lonHem == "" {
		lonHem = "E"
	}
	return fmt.Sprintf("%s°%s, %s°%s", optionalNumber(pos.Latitude.Value), latHem, optionalNumber(pos.Longitude.Value), lonHem)
}

func optionalNumber(v *float64) string {
	if v == nil {
		return "?"
	}
	return formatNumber(*v)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

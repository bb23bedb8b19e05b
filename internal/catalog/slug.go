package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/i474232898/forecast-blend/internal/common"
)

const artifactSuffix = "_7day.json"

// artifactPattern matches names such as 33_51_-95_14_7day.json.
var artifactPattern = regexp.MustCompile(`^(-?\d+)_?(\d*)_(-?\d+)_?(\d*)_7day\.json$`)

// ArtifactName returns the forecast file name of a coordinate pair.
func ArtifactName(lat, lon string) string {
	return common.SafeCoord(lat) + "_" + common.SafeCoord(lon) + artifactSuffix
}

// ParseArtifactName maps a forecast file name back to its coordinates.
func ParseArtifactName(name string) (lat, lon float64, ok bool) {
	m := artifactPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}

	lat, err := unslug(m[1], m[2])
	if err != nil {
		return 0, 0, false
	}
	lon, err = unslug(m[3], m[4])
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// unslug rebuilds a coordinate from its whole and fractional parts: ("-95", "14") -> -95.14.
// The sign is taken from the whole part so that "-0", "5" gives -0.5.
func unslug(whole, frac string) (float64, error) {
	sign := 1.0
	if strings.HasPrefix(whole, "-") {
		sign = -1
		whole = strings.TrimPrefix(whole, "-")
	}

	s := whole
	if frac != "" {
		s = whole + "." + frac
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return sign * v, nil
}

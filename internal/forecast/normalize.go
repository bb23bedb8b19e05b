package forecast

import (
	"time"

	"github.com/i474232898/forecast-blend/internal/common"
)

const (
	dateKeyLayout = "2006-01-02"
	twcIsoLayout  = "2006-01-02T15:04:05Z"
)

// DateKey returns the literal date component (first 10 characters) of an
// ISO timestamp. The offset is not applied: an NWS start time of
// 2025-07-18T23:00:00-05:00 groups under 2025-07-18.
func DateKey(ts string) (string, bool) {
	if len(ts) < len(dateKeyLayout) {
		return "", false
	}
	key := ts[:len(dateKeyLayout)]
	if _, err := time.Parse(dateKeyLayout, key); err != nil {
		return "", false
	}
	return key, true
}

// NormalizeNWS converts an NWS forecast into RawPeriods, preserving order.
func NormalizeNWS(raw NWSForecastResponse) []RawPeriod {
	periods := make([]RawPeriod, 0, len(raw.Properties.Periods))
	for _, p := range raw.Properties.Periods {
		periods = append(periods, RawPeriod{
			Name:                       p.Name,
			StartTime:                  p.StartTime,
			EndTime:                    p.EndTime,
			IsDaytime:                  p.IsDaytime,
			Temperature:                common.Clone(p.Temperature.Value),
			TemperatureUnit:            p.TemperatureUnit,
			ProbabilityOfPrecipitation: common.Clone(p.ProbabilityOfPrecipitation.Value),
			WindSpeed:                  p.WindSpeed,
			WindDirection:              p.WindDirection,
			ShortForecast:              p.ShortForecast,
			DetailedForecast:           p.DetailedForecast,
			Icon:                       p.Icon,
		})
	}
	return periods
}

// NormalizeTWC zips the weather.com parallel arrays into TwcDays. Only
// validTimeUtc decides the number of days; shorter companion arrays yield
// nil for the missing trailing entries.
func NormalizeTWC(raw TWCDailyResponse) []TwcDay {
	days := make([]TwcDay, 0, len(raw.ValidTimeUtc))
	for i, ts := range raw.ValidTimeUtc {
		days = append(days, TwcDay{
			ValidTimeUtc: common.Clone(ts),
			DateUtcIso:   isoFromEpoch(ts),
			DayOfWeek:    at(raw.DayOfWeek, i),
			TempMax:      at(raw.TemperatureMax, i),
			TempMin:      at(raw.TemperatureMin, i),
			QPF:          at(raw.QPF, i),
			Narrative:    at(raw.Narrative, i),
		})
	}
	return days
}

// at is a bounds-checked lookup: out of range and null entries are both nil.
func at[T any](values []*T, i int) *T {
	if i < 0 || i >= len(values) {
		return nil
	}
	return common.Clone(values[i])
}

func isoFromEpoch(ts *int64) *string {
	if ts == nil {
		return nil
	}
	t := time.Unix(*ts, 0).UTC()
	if t.Year() < 1 || t.Year() > 9999 {
		return nil
	}
	s := t.Format(twcIsoLayout)
	return &s
}

package forecast

import "github.com/i474232898/forecast-blend/internal/common"

// CollapseDaily folds NWS periods into one DailySummary per date key.
//
// A later period of the same kind (day or night) overwrites its slot, except
// that an empty detailed forecast never erases an existing narrative. PoP is
// the running maximum over every period of the date, absent values counting
// as 0. Periods without a resolvable date key are skipped.
func CollapseDaily(periods []RawPeriod) map[string]DailySummary {
	builders := make(map[string]*DailySummary)

	for _, p := range periods {
		key, ok := DateKey(p.StartTime)
		if !ok {
			continue
		}

		d, exists := builders[key]
		if !exists {
			d = &DailySummary{}
			builders[key] = d
		}

		if p.IsDaytime {
			d.DayName = common.StringPtr(p.Name)
			d.DayTemp = common.Clone(p.Temperature)
			d.IconDay = common.StringPtr(p.Icon)
			if p.DetailedForecast != "" {
				d.NarrativeDay = p.DetailedForecast
			}
		} else {
			d.NightTemp = common.Clone(p.Temperature)
			d.IconNight = common.StringPtr(p.Icon)
			if p.DetailedForecast != "" {
				d.NarrativeNight = p.DetailedForecast
			}
		}

		var pop float64
		if p.ProbabilityOfPrecipitation != nil {
			pop = *p.ProbabilityOfPrecipitation
		}
		if pop > d.PoP {
			d.PoP = pop
		}
	}

	out := make(map[string]DailySummary, len(builders))
	for key, d := range builders {
		out[key] = *d
	}
	return out
}

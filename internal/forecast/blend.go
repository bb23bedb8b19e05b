package forecast

import "github.com/i474232898/forecast-blend/internal/common"

// Blend merges the collapsed NWS days into the weather.com day sequence.
//
// The output follows the order of days, truncated to limit (DefaultDayLimit
// when limit <= 0) and never padded. Each day is joined to daily by the date
// component of its UTC datetime; NWS values win where present, weather.com
// values fill the rest, and SourceFlags records which fields came from NWS.
func Blend(daily map[string]DailySummary, days []TwcDay, limit int) []BlendedDay {
	if limit <= 0 {
		limit = DefaultDayLimit
	}
	n := min(limit, len(days))

	out := make([]BlendedDay, 0, n)
	for _, day := range days[:n] {
		out = append(out, blendDay(daily, day))
	}
	return out
}

func blendDay(daily map[string]DailySummary, day TwcDay) BlendedDay {
	b := BlendedDay{
		DayOfWeek: common.Clone(day.DayOfWeek),
		HighTemp:  common.Clone(day.TempMax),
		LowTemp:   common.Clone(day.TempMin),
		QPF:       common.Clone(day.QPF),
	}
	if day.Narrative != nil {
		b.Narrative = *day.Narrative
	}

	var (
		nws     DailySummary
		matched bool
	)
	if day.DateUtcIso != nil {
		if key, ok := DateKey(*day.DateUtcIso); ok {
			b.Date = &key
			nws, matched = daily[key]
		}
	}
	if !matched {
		return b
	}

	if nws.DayTemp != nil {
		b.HighTemp = common.Clone(nws.DayTemp)
		b.SourceFlags.NWSTempDay = true
	}
	if nws.NightTemp != nil {
		b.LowTemp = common.Clone(nws.NightTemp)
		b.SourceFlags.NWSTempNight = true
	}

	pop := nws.PoP
	b.PoP = &pop
	b.SourceFlags.NWSPoP = true

	if narrative := common.JoinNonEmpty(" ", nws.NarrativeDay, nws.NarrativeNight); narrative != "" {
		b.Narrative = narrative
		b.SourceFlags.NWSNarrative = true
	}

	b.Icons.Day = common.Clone(nws.IconDay)
	b.Icons.Night = common.Clone(nws.IconNight)
	b.SourceFlags.NWSIconDay = nws.IconDay != nil
	b.SourceFlags.NWSIconNight = nws.IconNight != nil

	return b
}

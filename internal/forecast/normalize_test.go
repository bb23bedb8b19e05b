package forecast

import (
	"encoding/json"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestDateKey(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"2025-07-18T06:00:00-05:00", "2025-07-18", true},
		{"2025-07-18T23:00:00-05:00", "2025-07-18", true}, // offset not applied
		{"2025-07-18T12:00:00Z", "2025-07-18", true},
		{"2025-07-18", "2025-07-18", true},
		{"2025-07", "", false},
		{"", "", false},
		{"not-a-date-at-all", "", false},
		{"2025-13-40T00:00:00Z", "", false},
	}
	for _, tt := range tests {
		got, ok := DateKey(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("DateKey(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNormalizeNWSPreservesOrderAndFields(t *testing.T) {
	payload := `{
	  "properties": {
	    "periods": [
	      {"number": 1, "name": "Tonight", "startTime": "2025-07-17T18:00:00-05:00", "endTime": "2025-07-18T06:00:00-05:00",
	       "isDaytime": false, "temperature": 76, "temperatureUnit": "F",
	       "probabilityOfPrecipitation": {"unitCode": "wmoUnit:percent", "value": 20},
	       "windSpeed": "5 mph", "windDirection": "S", "icon": "https://api.weather.gov/icons/land/night/few",
	       "shortForecast": "Mostly Clear", "detailedForecast": "Mostly clear, with a low around 76."},
	      {"number": 2, "name": "Friday", "startTime": "2025-07-18T06:00:00-05:00", "endTime": "2025-07-18T18:00:00-05:00",
	       "isDaytime": true, "temperature": 95, "temperatureUnit": "F",
	       "probabilityOfPrecipitation": {"unitCode": "wmoUnit:percent", "value": null},
	       "windSpeed": "5 to 10 mph", "windDirection": "SW", "icon": "https://api.weather.gov/icons/land/day/skc",
	       "shortForecast": "Sunny", "detailedForecast": "Sunny, with a high near 95."},
	      {"number": 3, "name": "Friday Night", "startTime": "2025-07-18T18:00:00-05:00", "endTime": "2025-07-19T06:00:00-05:00",
	       "isDaytime": false, "temperature": 75, "probabilityOfPrecipitation": 10}
	    ]
	  }
	}`

	var raw NWSForecastResponse
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	periods := NormalizeNWS(raw)
	if len(periods) != 3 {
		t.Fatalf("expected 3 periods, got %d", len(periods))
	}

	names := []string{"Tonight", "Friday", "Friday Night"}
	for i, want := range names {
		if periods[i].Name != want {
			t.Errorf("period %d: expected name %q, got %q", i, want, periods[i].Name)
		}
	}

	if periods[0].ProbabilityOfPrecipitation == nil || *periods[0].ProbabilityOfPrecipitation != 20 {
		t.Errorf("expected object-form pop 20, got %v", periods[0].ProbabilityOfPrecipitation)
	}
	if periods[1].ProbabilityOfPrecipitation != nil {
		t.Errorf("expected null pop to be absent, got %v", *periods[1].ProbabilityOfPrecipitation)
	}
	if periods[2].ProbabilityOfPrecipitation == nil || *periods[2].ProbabilityOfPrecipitation != 10 {
		t.Errorf("expected bare-number pop 10, got %v", periods[2].ProbabilityOfPrecipitation)
	}
	if periods[1].Temperature == nil || *periods[1].Temperature != 95 {
		t.Errorf("expected temperature 95, got %v", periods[1].Temperature)
	}
	if !periods[1].IsDaytime || periods[2].IsDaytime {
		t.Errorf("isDaytime not preserved: %+v", periods)
	}
	if periods[1].DetailedForecast != "Sunny, with a high near 95." {
		t.Errorf("unexpected detailed forecast %q", periods[1].DetailedForecast)
	}
}

func TestQuantityFailsSoft(t *testing.T) {
	inputs := []string{`"twenty"`, `true`, `{"value": "x"}`, `[]`, `null`, `{}`}
	for _, in := range inputs {
		var q Quantity
		if err := json.Unmarshal([]byte(in), &q); err != nil {
			t.Errorf("Unmarshal(%s) returned error %v", in, err)
		}
		if q.Value != nil {
			t.Errorf("Unmarshal(%s) expected absent value, got %v", in, *q.Value)
		}
	}
}

func TestNormalizeTWCZipsParallelArrays(t *testing.T) {
	// 1752840000 = 2025-07-18T12:00:00Z
	raw := TWCDailyResponse{
		ValidTimeUtc:   []*int64{ptr(int64(1752840000)), ptr(int64(1752926400)), ptr(int64(1753012800))},
		DayOfWeek:      []*string{ptr("Friday"), ptr("Saturday"), ptr("Sunday")},
		TemperatureMax: []*float64{nil, ptr(97.0), ptr(98.0)},
		TemperatureMin: []*float64{ptr(74.0), ptr(75.0)},
		QPF:            []*float64{ptr(0.0)},
		Narrative:      []*string{ptr("Hot"), ptr("Hotter"), ptr("Hottest"), ptr("extra")},
	}

	days := NormalizeTWC(raw)
	if len(days) != 3 {
		t.Fatalf("expected 3 days (length of validTimeUtc), got %d", len(days))
	}

	if days[0].DateUtcIso == nil || *days[0].DateUtcIso != "2025-07-18T12:00:00Z" {
		t.Errorf("unexpected iso date %v", days[0].DateUtcIso)
	}
	if days[0].TempMax != nil {
		t.Errorf("expected null tempMax to stay nil, got %v", *days[0].TempMax)
	}
	if days[2].TempMin != nil {
		t.Errorf("expected missing trailing tempMin to be nil, got %v", *days[2].TempMin)
	}
	if days[1].QPF != nil || days[2].QPF != nil {
		t.Errorf("expected missing trailing qpf to be nil")
	}
	if days[0].QPF == nil || *days[0].QPF != 0 {
		t.Errorf("expected qpf 0.0 on first day, got %v", days[0].QPF)
	}
	if days[2].Narrative == nil || *days[2].Narrative != "Hottest" {
		t.Errorf("expected narrative aligned by index, got %v", days[2].Narrative)
	}
}

func TestNormalizeTWCMalformedTimestamp(t *testing.T) {
	raw := TWCDailyResponse{
		ValidTimeUtc:   []*int64{nil, ptr(int64(253402300800)), ptr(int64(1752840000))},
		TemperatureMax: []*float64{ptr(90.0), ptr(91.0), ptr(92.0)},
	}

	days := NormalizeTWC(raw)
	if len(days) != 3 {
		t.Fatalf("expected every entry to participate, got %d", len(days))
	}
	if days[0].DateUtcIso != nil || days[1].DateUtcIso != nil {
		t.Fatalf("expected null and out-of-range epochs to yield nil dates")
	}
	if days[1].TempMax == nil || *days[1].TempMax != 91 {
		t.Fatalf("expected record to keep its other fields, got %v", days[1].TempMax)
	}
	if days[2].DateUtcIso == nil {
		t.Fatal("expected valid epoch to resolve")
	}
}

func TestNormalizeEmptyPayloads(t *testing.T) {
	if got := NormalizeNWS(NWSForecastResponse{}); len(got) != 0 {
		t.Fatalf("expected no periods, got %d", len(got))
	}
	if got := NormalizeTWC(TWCDailyResponse{}); len(got) != 0 {
		t.Fatalf("expected no days, got %d", len(got))
	}
}

func TestTWCDailyResponseToleratesBadEntries(t *testing.T) {
	payload := `{
		"validTimeUtc":   [1752840000, "not-a-time", 1752926400.5, null, 1753099200],
		"dayOfWeek":      ["Friday", "Saturday", 7, "Monday", "Tuesday"],
		"temperatureMax": [96, "--", 94.5, null, 91],
		"temperatureMin": [75, 74, 73, 72, 71],
		"qpf":            [0.0, 0.1, 0.2, 0.3, 0.4],
		"narrative":      ["Sunny.", "Storms.", null, "Clear.", "Hot."]
	}`

	var raw TWCDailyResponse
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	days := NormalizeTWC(raw)
	if len(days) != 5 {
		t.Fatalf("expected every entry to survive decoding, got %d", len(days))
	}
	for _, i := range []int{1, 2, 3} {
		if days[i].DateUtcIso != nil {
			t.Errorf("day %d: expected nil date, got %s", i, *days[i].DateUtcIso)
		}
	}
	if days[0].DateUtcIso == nil || *days[0].DateUtcIso != "2025-07-18T12:00:00Z" {
		t.Errorf("expected first day to resolve, got %v", days[0].DateUtcIso)
	}
	if days[4].DateUtcIso == nil || *days[4].DateUtcIso != "2025-07-21T12:00:00Z" {
		t.Errorf("expected last day to resolve, got %v", days[4].DateUtcIso)
	}
	if days[1].TempMax != nil {
		t.Errorf("expected \"--\" temperature to decode as nil, got %v", *days[1].TempMax)
	}
	if days[2].TempMax == nil || *days[2].TempMax != 94.5 {
		t.Errorf("expected neighbouring temperature to be kept, got %v", days[2].TempMax)
	}
	if days[2].DayOfWeek != nil {
		t.Errorf("expected numeric dayOfWeek to decode as nil, got %v", *days[2].DayOfWeek)
	}
	if days[1].TempMin == nil || *days[1].TempMin != 74 {
		t.Errorf("expected the bad day to keep its other fields, got %v", days[1].TempMin)
	}

	blended := Blend(nil, days, 7)
	if len(blended) != 5 || blended[1].Date != nil || blended[4].Date == nil {
		t.Fatalf("expected all days to blend with nil dates for bad epochs, got %+v", blended)
	}
}

func TestTWCDailyResponseNonArrayField(t *testing.T) {
	var raw TWCDailyResponse
	if err := json.Unmarshal([]byte(`{"validTimeUtc": [1752840000], "temperatureMax": "n/a"}`), &raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	days := NormalizeTWC(raw)
	if len(days) != 1 || days[0].TempMax != nil {
		t.Fatalf("expected one day without a high, got %+v", days)
	}

	if err := json.Unmarshal([]byte(`[1, 2]`), &raw); err == nil {
		t.Fatal("expected a non-object body to be rejected")
	}
}

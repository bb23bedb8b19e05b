package forecast

import (
	"bytes"
	"context"
	"encoding/json"
)

// NWSForecastResponse is the subset of an api.weather.gov gridpoint forecast we read.
type NWSForecastResponse struct {
	Properties NWSForecastProperties `json:"properties"`
}

// NWSForecastProperties holds the alternating day/night periods.
type NWSForecastProperties struct {
	Periods []NWSPeriod `json:"periods"`
}

// NWSPeriod is a single upstream period as published by NWS.
type NWSPeriod struct {
	Number                     int      `json:"number"`
	Name                       string   `json:"name"`
	StartTime                  string   `json:"startTime"`
	EndTime                    string   `json:"endTime"`
	IsDaytime                  bool     `json:"isDaytime"`
	Temperature                Quantity `json:"temperature"`
	TemperatureUnit            string   `json:"temperatureUnit"`
	ProbabilityOfPrecipitation Quantity `json:"probabilityOfPrecipitation"`
	WindSpeed                  string   `json:"windSpeed"`
	WindDirection              string   `json:"windDirection"`
	Icon                       string   `json:"icon"`
	ShortForecast              string   `json:"shortForecast"`
	DetailedForecast           string   `json:"detailedForecast"`
}

// Quantity is a numeric NWS field. It accepts a bare number or a
// QuantitativeValue object ({"unitCode": "...", "value": n}); null and
// anything non-numeric decode to an absent value instead of an error.
type Quantity struct {
	Value *float64
}

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	q.Value = nil

	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		q.Value = &n
		return nil
	}

	var obj struct {
		Value *float64 `json:"value"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		q.Value = obj.Value
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Value)
}

// TWCDailyResponse is the weather.com v3 daily forecast: one parallel array per field.
// Entries may be null (e.g. today's temperatureMax once the day's high has passed).
// Decoding is element-wise: an entry of the wrong type becomes nil and a field
// that is not an array becomes empty, so one bad value never loses the other days.
type TWCDailyResponse struct {
	ValidTimeUtc   []*int64   `json:"validTimeUtc"`
	DayOfWeek      []*string  `json:"dayOfWeek"`
	TemperatureMax []*float64 `json:"temperatureMax"`
	TemperatureMin []*float64 `json:"temperatureMin"`
	QPF            []*float64 `json:"qpf"`
	Narrative      []*string  `json:"narrative"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *TWCDailyResponse) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	*r = TWCDailyResponse{
		ValidTimeUtc:   decodeEach(fields["validTimeUtc"], epochValue),
		DayOfWeek:      decodeEach(fields["dayOfWeek"], stringValue),
		TemperatureMax: decodeEach(fields["temperatureMax"], numberValue),
		TemperatureMin: decodeEach(fields["temperatureMin"], numberValue),
		QPF:            decodeEach(fields["qpf"], numberValue),
		Narrative:      decodeEach(fields["narrative"], stringValue),
	}
	return nil
}

func decodeEach[T any](raw json.RawMessage, value func(json.RawMessage) *T) []*T {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	out := make([]*T, len(items))
	for i, item := range items {
		out[i] = value(item)
	}
	return out
}

// epochValue accepts whole-second numbers only; 1752926400.5 and "--" are nil.
func epochValue(raw json.RawMessage) *int64 {
	var n *json.Number
	if json.Unmarshal(raw, &n) != nil || n == nil {
		return nil
	}
	v, err := n.Int64()
	if err != nil {
		return nil
	}
	return &v
}

func numberValue(raw json.RawMessage) *float64 {
	var n *json.Number
	if json.Unmarshal(raw, &n) != nil || n == nil {
		return nil
	}
	v, err := n.Float64()
	if err != nil {
		return nil
	}
	return &v
}

func stringValue(raw json.RawMessage) *string {
	var s *string
	if json.Unmarshal(raw, &s) != nil {
		return nil
	}
	return s
}

// GovernmentSource fetches the NWS day/night period forecast for a point.
type GovernmentSource interface {
	Name() string
	FetchPeriods(ctx context.Context, p Point) (NWSForecastResponse, error)
}

// CommercialSource fetches the weather.com daily forecast for a point.
type CommercialSource interface {
	Name() string
	FetchDaily(ctx context.Context, p Point) (TWCDailyResponse, error)
}

// Store is the contract the document stores must satisfy.
type Store interface {
	Save(ctx context.Context, p Point, doc Document) error
	Latest(ctx context.Context, p Point) (Document, error)
}

package noaa

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

const predTimeFormat = "2006-01-02 15:04"

// Prediction holds a single tide prediction.
type Prediction struct {
	// Local time of tide prediction
	Time Time `json:"t"`
	// Height in feet
	Height Height `json:"v"`
	// High or Low tide, "H" or "L" when encoded. Interval samples have none.
	Type Tide `json:"type,omitempty"`
}

// Verify the custom types can be unmarshaled
var _ json.Unmarshaler = &Time{}
var _ json.Unmarshaler = new(Height)
var _ json.Unmarshaler = new(Tide)

// Predictions is a time series of Prediction.
type Predictions []Prediction

// NOAAResult is the data type returned by the NOAA API. NOAA reports bad
// queries with a 200 and an error object instead of predictions.
type NOAAResult struct {
	Predictions Predictions `json:"predictions"`
	Error       *APIError   `json:"error,omitempty"`
}

// APIError is the error object NOAA embeds in otherwise successful responses.
type APIError struct {
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return "noaa: " + e.Message
}

// PredictionQuery is used to query tide data at a station in a given time
// window; see Client.GetPredictions.
type PredictionQuery struct {
	Start    time.Time
	Duration time.Duration
	Station  Station
	// Interval is "hilo" for high/low events (the default), or a sampling
	// interval such as "h" or "6" (minutes) for chart data.
	Interval string
}

const (
	IntervalHiLo   = "hilo"
	IntervalHourly = "h"
)

// End is the last instant covered by the query.
func (q *PredictionQuery) End() time.Time {
	return q.Start.Add(q.Duration)
}

// Station is a NOAA CO-OPS station identifier, e.g. "8727343".
type Station string

const (
	CrystalRiver Station = "8727343"
	TampaBay     Station = "8726607"
)

type Time time.Time

func (t *Time) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("prediction time %q not string: %w", buf, err)
	}
	// Parsed as a bare wall clock; the client moves it into the station's
	// zone.
	parsed, err := time.ParseInLocation(predTimeFormat, s, time.UTC)
	if err != nil {
		return fmt.Errorf("prediction time %q not in fmt %q: %w", s, predTimeFormat, err)
	}
	*t = Time(parsed)
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(predTimeFormat))
}

type Height float64

func (h *Height) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("water height %q not string: %w", buf, err)
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("water height %q not a float: %w", s, err)
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return fmt.Errorf("water height %q not finite", s)
	}
	*h = Height(parsed)
	return nil
}

func (h Height) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatFloat(float64(h), 'f', 3, 64))
}

type Tide uint

const (
	NoTide Tide = iota
	HighTide
	LowTide
)

func (t Tide) Valid() bool {
	return t == HighTide || t == LowTide
}

func (t *Tide) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("tide %q not a string: %w", buf, err)
	}
	switch s {
	case "H":
		*t = HighTide
	case "L":
		*t = LowTide
	case "":
		*t = NoTide
	default:
		return fmt.Errorf("invalid tide type %q", s)
	}
	return nil
}

func (t Tide) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.String())
}

func (t Tide) String() string {
	switch t {
	case HighTide:
		return "H"
	case LowTide:
		return "L"
	default:
		return "invalid"
	}
}

// Name is the human name of the tide type.
func (t Tide) Name() string {
	switch t {
	case HighTide:
		return "High"
	case LowTide:
		return "Low"
	default:
		return "Tide"
	}
}

// T returns the prediction time as a time.Time.
func (p Prediction) T() time.Time {
	return time.Time(p.Time)
}

func (p Prediction) String() string {
	return fmt.Sprintf("{t: %s, v: %f, type: %s}",
		time.Time(p.Time).Format(time.RFC822),
		p.Height,
		p.Type.String())
}

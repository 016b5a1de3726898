// Package forecast defines the load-forecast sample model and the HTTP
// fetcher the dashboard polls it with.
package forecast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

// WireTimeLayout is the zone-less ISO form the forecast API emits,
// interpreted in the configured display location.
const WireTimeLayout = "2006-01-02T15:04:05"

// Sample is one payload from the forecast endpoint: three load series in
// megawatts over the same hourly slots, plus the instant the sample was
// produced upstream. A sample is never mutated once fetched.
type Sample struct {
	ActualLoad     []float64
	EntsoeForecast []float64
	ModelForecast  []float64
	Timestamp      time.Time
}

// Len returns the number of time slots the sample covers.
func (s Sample) Len() int {
	return len(s.ActualLoad)
}

type samplePayload struct {
	ActualLoad     []float64 `json:"actual_load"`
	EntsoeForecast []float64 `json:"entsoe_forecast"`
	ModelForecast  []float64 `json:"model_forecast"`
	Timestamp      string    `json:"timestamp"`
}

// DecodeSample parses one payload from r and validates its shape.
// Zone-less timestamps are interpreted in loc.
func DecodeSample(r io.Reader, loc *time.Location) (Sample, error) {
	var p samplePayload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Sample{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return p.toSample(loc)
}

func (p samplePayload) toSample(loc *time.Location) (Sample, error) {
	if p.ActualLoad == nil || p.EntsoeForecast == nil || p.ModelForecast == nil {
		return Sample{}, fmt.Errorf("%w: missing load series", ErrParse)
	}
	if len(p.EntsoeForecast) != len(p.ActualLoad) || len(p.ModelForecast) != len(p.ActualLoad) {
		return Sample{}, fmt.Errorf("%w: series lengths differ (actual=%d entsoe=%d model=%d)",
			ErrParse, len(p.ActualLoad), len(p.EntsoeForecast), len(p.ModelForecast))
	}
	ts, err := ParseTimestamp(p.Timestamp, loc)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return Sample{
		ActualLoad:     p.ActualLoad,
		EntsoeForecast: p.EntsoeForecast,
		ModelForecast:  p.ModelForecast,
		Timestamp:      ts,
	}, nil
}

// ParseTimestamp accepts RFC3339 with or without sub-second precision,
// the zone-less ISO form the upstream emits, and unix seconds.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if loc == nil {
		loc = time.UTC
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	if ts, err := time.ParseInLocation(WireTimeLayout+".999999999", s, loc); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).In(loc), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

package source

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/etrheim/energy-load-dashboard/internal/forecast"
)

const (
	baseLoadMW     = 50000.0
	dailySwingMW   = 6000.0
	noiseSigmaMW   = 1000.0
	modelSmoothing = 3
)

// SyntheticSource fabricates plausible grid load series with a daily
// cycle. The generator is re-seeded per hour bucket, so repeated calls
// within the same hour return identical data.
type SyntheticSource struct {
	seed int64
	loc  *time.Location
	now  func() time.Time
}

func NewSyntheticSource(seed int64, loc *time.Location) *SyntheticSource {
	if loc == nil {
		loc = time.UTC
	}
	return &SyntheticSource{seed: seed, loc: loc, now: time.Now}
}

// Latest generates a sample spanning the past hours hours, newest slot
// last. The published forecast runs a fixed 10% above the actual load
// and the model forecast tracks a smoothed version of it.
func (s *SyntheticSource) Latest(_ context.Context, hours int) (forecast.Sample, error) {
	if hours <= 0 {
		return forecast.Sample{}, fmt.Errorf("synthetic source: hours must be positive, got %d", hours)
	}

	now := s.now().In(s.loc)
	anchor := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, s.loc)
	rng := rand.New(rand.NewSource(s.seed ^ anchor.Unix()))

	actual := make([]float64, hours)
	entsoe := make([]float64, hours)
	for i := range actual {
		slot := anchor.Add(-time.Duration(hours-1-i) * time.Hour)
		phase := 2 * math.Pi * float64(slot.Hour()-6) / 24
		load := baseLoadMW + dailySwingMW*math.Sin(phase) + rng.NormFloat64()*noiseSigmaMW
		actual[i] = round1(load)
		entsoe[i] = round1(load * 1.1)
	}

	model := movingAverage(actual, modelSmoothing)
	for i := range model {
		model[i] = round1(model[i] + rng.NormFloat64()*noiseSigmaMW/2)
	}

	return forecast.Sample{
		ActualLoad:     actual,
		EntsoeForecast: entsoe,
		ModelForecast:  model,
		Timestamp:      now,
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Package source produces electricity load samples for the forecast
// API, either synthesised locally or pulled from an upstream provider.
package source

import (
	"context"

	"github.com/etrheim/energy-load-dashboard/internal/forecast"
)

// SampleSource yields the most recent load sample covering the given
// number of hours.
type SampleSource interface {
	Latest(ctx context.Context, hours int) (forecast.Sample, error)
}

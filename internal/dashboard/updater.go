package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/etrheim/energy-load-dashboard/internal/forecast"
	"github.com/etrheim/energy-load-dashboard/internal/metrics"
)

// Chart trace names, matching the page legend.
const (
	TraceActual = "Actual Load"
	TraceEntsoe = "ENTSO-E Forecast"
	TraceModel  = "Model Forecast"
)

// SampleFetcher is the single-attempt fetch the updater drives once per
// cycle.
type SampleFetcher interface {
	Fetch(ctx context.Context) (forecast.Sample, error)
}

// Updater drives one fetch-and-render cycle per tick. On success it
// commits all three traces in one update plus the timestamp text; on
// failure it logs one diagnostic entry and leaves the surface at its
// previous values.
type Updater struct {
	fetcher SampleFetcher
	surface RenderSurface
	axis    TimeAxis
	loc     *time.Location
	metrics *metrics.Refresh
	log     logrus.FieldLogger
}

// NewUpdater creates an Updater rendering into surface.
func NewUpdater(fetcher SampleFetcher, surface RenderSurface, axis TimeAxis, loc *time.Location, m *metrics.Refresh, log logrus.FieldLogger) *Updater {
	if loc == nil {
		loc = time.UTC
	}
	return &Updater{
		fetcher: fetcher,
		surface: surface,
		axis:    axis,
		loc:     loc,
		metrics: m,
		log:     log,
	}
}

// RunCycle executes one refresh cycle. It never returns an error and
// never panics outward: the scheduler driving it must survive every
// cycle, so failures end here.
func (u *Updater) RunCycle(ctx context.Context) {
	log := u.log.WithField("cycle_id", uuid.NewString())
	defer func() {
		if r := recover(); r != nil {
			u.metrics.CycleDone("panic")
			log.WithField("panic", r).Error("refresh cycle panicked")
		}
	}()

	start := time.Now()
	sample, err := u.fetcher.Fetch(ctx)
	u.metrics.ObserveFetch(time.Since(start))
	if err != nil {
		kind := forecast.Classify(err)
		u.metrics.CycleDone(kind)
		log.WithError(err).WithField("error_kind", kind).Error("dashboard refresh failed")
		return
	}

	x := u.axis.Labels(sample.Timestamp, sample.Len())
	u.surface.ApplyUpdate(TraceUpdate{Traces: []Trace{
		{Name: TraceActual, X: x, Y: sample.ActualLoad},
		{Name: TraceEntsoe, X: x, Y: sample.EntsoeForecast},
		{Name: TraceModel, X: x, Y: sample.ModelForecast},
	}})
	u.surface.SetText(TextLastUpdate, "Last updated: "+sample.Timestamp.In(u.loc).Format("2006-01-02 15:04:05"))

	u.metrics.CycleDone("success")
	u.metrics.MarkSuccess()
	log.WithFields(logrus.Fields{
		"slots":    sample.Len(),
		"duration": time.Since(start).String(),
	}).Info("dashboard refreshed")
}

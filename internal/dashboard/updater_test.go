package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etrheim/energy-load-dashboard/internal/forecast"
	"github.com/etrheim/energy-load-dashboard/internal/metrics"
)

type stubFetcher struct {
	sample forecast.Sample
	err    error
	calls  int
}

func (f *stubFetcher) Fetch(ctx context.Context) (forecast.Sample, error) {
	f.calls++
	if f.err != nil {
		return forecast.Sample{}, f.err
	}
	return f.sample, nil
}

type recordingSurface struct {
	updates []TraceUpdate
	texts   map[string]string
}

func (r *recordingSurface) ApplyUpdate(update TraceUpdate) {
	r.updates = append(r.updates, update)
}

func (r *recordingSurface) SetText(id, value string) {
	if r.texts == nil {
		r.texts = make(map[string]string)
	}
	r.texts[id] = value
}

type panickingSurface struct{}

func (panickingSurface) ApplyUpdate(TraceUpdate) { panic("surface exploded") }
func (panickingSurface) SetText(string, string)  {}

func testSample() forecast.Sample {
	return forecast.Sample{
		ActualLoad:     []float64{1000, 2000, 3000},
		EntsoeForecast: []float64{1100, 2100, 3100},
		ModelForecast:  []float64{1050, 2050, 3050},
		Timestamp:      time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC),
	}
}

func newTestUpdater(f SampleFetcher, s RenderSurface) (*Updater, *logrustest.Hook) {
	logger, hook := logrustest.NewNullLogger()
	m := metrics.NewRefresh(prometheus.NewRegistry())
	u := NewUpdater(f, s, HourlyAxis{Location: time.UTC}, time.UTC, m, logger)
	return u, hook
}

// A successful cycle commits exactly one update carrying all three
// traces with the fetched series unchanged, and the timestamp text.
func TestRunCycleRendersSample(t *testing.T) {
	fetcher := &stubFetcher{sample: testSample()}
	surface := &recordingSurface{}
	u, _ := newTestUpdater(fetcher, surface)

	u.RunCycle(context.Background())

	assert.Equal(t, 1, fetcher.calls, "one cycle means one fetch")
	require.Len(t, surface.updates, 1, "all traces land in a single update call")

	traces := surface.updates[0].Traces
	require.Len(t, traces, 3)
	assert.Equal(t, TraceActual, traces[0].Name)
	assert.Equal(t, TraceEntsoe, traces[1].Name)
	assert.Equal(t, TraceModel, traces[2].Name)
	assert.Equal(t, []float64{1000, 2000, 3000}, traces[0].Y)
	assert.Equal(t, []float64{1100, 2100, 3100}, traces[1].Y)
	assert.Equal(t, []float64{1050, 2050, 3050}, traces[2].Y)

	for _, tr := range traces {
		assert.Len(t, tr.X, 3, "x axis matches the sample length")
	}
	assert.Equal(t, "2024-03-20 12:00", traces[0].X[2])

	assert.Equal(t, "Last updated: 2024-03-20 12:00:00", surface.texts[TextLastUpdate])
}

// A failed cycle is a no-op on the surface: no update, no text, state
// keeps its pre-cycle values, and exactly one diagnostic entry carries
// the failure detail.
func TestRunCycleFailureLeavesStateUntouched(t *testing.T) {
	state := NewDisplayState()
	state.ApplyUpdate(TraceUpdate{Traces: []Trace{
		{Name: TraceActual, X: []string{"2024-03-20 11:00"}, Y: []float64{1234}},
	}})
	state.SetText(TextLastUpdate, "Last updated: 2024-03-20 11:00:00")
	before := state.Snapshot()

	fetchErr := fmt.Errorf("%w: got 503", forecast.ErrStatus)
	u, hook := newTestUpdater(&stubFetcher{err: fetchErr}, state)

	u.RunCycle(context.Background())

	assert.Equal(t, before, state.Snapshot())

	require.Len(t, hook.Entries, 1, "exactly one diagnostic entry per failed cycle")
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "status", entry.Data["error_kind"])
	loggedErr, ok := entry.Data[logrus.ErrorKey].(error)
	require.True(t, ok)
	assert.Contains(t, loggedErr.Error(), "503")
}

// Two consecutive successful cycles with identical payloads produce two
// update calls with identical arguments.
func TestRunCycleRepeatedSuccessIsIdempotent(t *testing.T) {
	fetcher := &stubFetcher{sample: testSample()}
	surface := &recordingSurface{}
	u, _ := newTestUpdater(fetcher, surface)

	u.RunCycle(context.Background())
	u.RunCycle(context.Background())

	require.Len(t, surface.updates, 2)
	assert.Equal(t, surface.updates[0], surface.updates[1])
	assert.Len(t, surface.updates[1].Traces[0].Y, 3, "no series accumulation across cycles")
}

// A cycle never raises past the updater, whatever blows up inside it.
func TestRunCycleRecoversPanic(t *testing.T) {
	u, hook := newTestUpdater(&stubFetcher{sample: testSample()}, panickingSurface{})

	assert.NotPanics(t, func() {
		u.RunCycle(context.Background())
	})

	require.NotEmpty(t, hook.Entries)
	assert.Contains(t, hook.LastEntry().Message, "panicked")
}

func TestRunCycleClassifiesFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind string
	}{
		{"network", fmt.Errorf("%w: connection refused", forecast.ErrNetwork), "network"},
		{"status", fmt.Errorf("%w: got 500", forecast.ErrStatus), "status"},
		{"parse", fmt.Errorf("%w: unexpected EOF", forecast.ErrParse), "parse"},
		{"other", fmt.Errorf("something odd"), "other"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, hook := newTestUpdater(&stubFetcher{err: tc.err}, &recordingSurface{})

			u.RunCycle(context.Background())

			require.Len(t, hook.Entries, 1)
			assert.Equal(t, tc.kind, hook.LastEntry().Data["error_kind"])
		})
	}
}

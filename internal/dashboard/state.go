// Package dashboard implements the refresh client that keeps the served
// dashboard in step with the forecast backend: a periodic updater, the
// display state it writes, and the rendering contract between them.
package dashboard

import (
	"sync"
	"time"
)

// TextLastUpdate identifies the "Last updated" text field on the page.
const TextLastUpdate = "last-update-time"

// Trace is one named x/y series on the chart.
type Trace struct {
	Name string    `json:"name"`
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
}

// TraceUpdate carries a complete set of traces committed in one call.
// The surface must swap all of them together so the chart never shows
// traces from two different refresh cycles at once.
type TraceUpdate struct {
	Traces []Trace
}

// RenderSurface is where a refresh cycle lands its output.
type RenderSurface interface {
	ApplyUpdate(update TraceUpdate)
	SetText(id, value string)
}

// Snapshot is the read-side view of the display state handed to HTTP
// clients for redrawing.
type Snapshot struct {
	HasData   bool              `json:"has_data"`
	Traces    []Trace           `json:"traces"`
	Text      map[string]string `json:"text"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// DisplayState holds the last successfully rendered values for the
// lifetime of the process. The updater is its only writer; HTTP
// handlers read it through Snapshot. A failed refresh cycle leaves it
// untouched, so readers keep seeing the previous good values.
type DisplayState struct {
	mu        sync.RWMutex
	traces    []Trace
	text      map[string]string
	hasData   bool
	updatedAt time.Time
}

// NewDisplayState creates the state with placeholder values shown until
// the first successful refresh.
func NewDisplayState() *DisplayState {
	return &DisplayState{
		text: map[string]string{TextLastUpdate: "Loading..."},
	}
}

// ApplyUpdate swaps in a complete set of traces.
func (s *DisplayState) ApplyUpdate(update TraceUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.traces = append([]Trace(nil), update.Traces...)
	s.hasData = true
	s.updatedAt = time.Now().UTC()
}

// SetText updates one text field.
func (s *DisplayState) SetText(id, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text[id] = value
}

// Snapshot copies the current state for readers.
func (s *DisplayState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		HasData:   s.hasData,
		Traces:    append([]Trace(nil), s.traces...),
		Text:      make(map[string]string, len(s.text)),
		UpdatedAt: s.updatedAt,
	}
	for k, v := range s.text {
		snap.Text[k] = v
	}
	return snap
}

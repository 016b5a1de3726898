package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	logrustest "github.com/sirupsen/logrus/hooks/test"

	"github.com/etrheim/energy-load-dashboard/internal/dashboard"
)

type stubTrigger struct {
	calls int
	err   error
}

func (s *stubTrigger) RunNow() error {
	s.calls++
	return s.err
}

func newDashboardApp(state *dashboard.DisplayState, trigger RefreshTrigger) *fiber.App {
	app := fiber.New()
	log, _ := logrustest.NewNullLogger()
	RegisterDashboardRoutes(app, state, trigger, log)
	return app
}

// TestDashboardPageServed verifies the embedded page is returned at the root.
func TestDashboardPageServed(t *testing.T) {
	app := newDashboardApp(dashboard.NewDisplayState(), &stubTrigger{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Fatalf("expected HTML content type, got %q", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(body), "load-chart") {
		t.Fatalf("expected page to contain the chart container")
	}
}

func TestDashboardStateEndpoint(t *testing.T) {
	state := dashboard.NewDisplayState()
	app := newDashboardApp(state, &stubTrigger{})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/state", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var empty struct {
		HasData bool              `json:"has_data"`
		Text    map[string]string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&empty); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if empty.HasData {
		t.Fatalf("expected no data before the first refresh")
	}
	if empty.Text[dashboard.TextLastUpdate] != "Loading..." {
		t.Fatalf("expected placeholder text, got %q", empty.Text[dashboard.TextLastUpdate])
	}

	state.ApplyUpdate(dashboard.TraceUpdate{Traces: []dashboard.Trace{
		{Name: "Actual Load", X: []string{"2024-03-20 12:00"}, Y: []float64{48123.5}},
	}})
	state.SetText(dashboard.TextLastUpdate, "Last updated: 2024-03-20 12:00:00")

	req = httptest.NewRequest(http.MethodGet, "/api/dashboard/state", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var populated struct {
		HasData bool `json:"has_data"`
		Traces  []struct {
			Name string    `json:"name"`
			X    []string  `json:"x"`
			Y    []float64 `json:"y"`
		} `json:"traces"`
		Text map[string]string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&populated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !populated.HasData {
		t.Fatalf("expected has_data after an update")
	}
	if len(populated.Traces) != 1 || populated.Traces[0].Name != "Actual Load" {
		t.Fatalf("unexpected traces: %+v", populated.Traces)
	}
	if populated.Text[dashboard.TextLastUpdate] != "Last updated: 2024-03-20 12:00:00" {
		t.Fatalf("unexpected text: %q", populated.Text[dashboard.TextLastUpdate])
	}
}

func TestManualRefreshAccepted(t *testing.T) {
	trigger := &stubTrigger{}
	app := newDashboardApp(dashboard.NewDisplayState(), trigger)

	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/refresh", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d", http.StatusAccepted, resp.StatusCode)
	}
	if trigger.calls != 1 {
		t.Fatalf("expected one trigger call, got %d", trigger.calls)
	}
}

func TestManualRefreshFailure(t *testing.T) {
	trigger := &stubTrigger{err: errors.New("scheduler not started")}
	app := newDashboardApp(dashboard.NewDisplayState(), trigger)

	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/refresh", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, resp.StatusCode)
	}
}

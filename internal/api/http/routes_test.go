package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/atlas"
	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/atlas/resolver"
	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/render"
	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/view"
)

// newTestApp wires the full stack (routes, pipeline, resolver) against a fake
// data tree served from memory.
func newTestApp(t *testing.T, tree map[string]string) (*fiber.App, *view.State) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := tree[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	state := view.NewState(atlas.KindTEC)
	pipeline := render.New(state, resolver.New(srv.Client(), srv.URL))

	app := fiber.New()
	RegisterRoutes(app, state, pipeline)
	return app, state
}

func testTree() map[string]string {
	return map[string]string{
		"/latest.json": `{"date":"20250829"}`,
		"/20250829/tec/index.json": `{
			"times_utc":["0000","1200"],
			"range":{"vmin":0,"vmax":10},
			"unit":"TECU"
		}`,
		"/20250829/tec/0000.json": `{"cells":[{"lat":0,"lon":0,"val":2}]}`,
		"/20250829/tec/1200.json": `{"cells":[{"lat":0,"lon":0,"val":5}]}`,
	}
}

// TestSelectionValidation verifies malformed update payloads return 400.
func TestSelectionValidation(t *testing.T) {
	app, _ := newTestApp(t, testTree())

	bodies := []string{
		`{"kind":"aerosol"}`,
		`{"date":"20250829"}`,
		`{"date":"2025/08/29"}`,
		`{"date":"2025-02-30"}`,
		`{"timeIndex":-1}`,
		`not json`,
	}
	for _, body := range bodies {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/selection", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %q: status %d, want %d", body, resp.StatusCode, http.StatusBadRequest)
		}
	}
}

// TestSelectionUpdateRendersView walks the full flow: set a date, move the
// slider, and read back the rendered view each time.
func TestSelectionUpdateRendersView(t *testing.T) {
	app, state := newTestApp(t, testTree())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/selection", strings.NewReader(`{"date":"2025-08-29"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	var v view.View
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if len(v.Rects) != 1 || v.TimeLabel != "00:00 UTC" {
		t.Fatalf("view = %d rects, label %q", len(v.Rects), v.TimeLabel)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/v1/selection", strings.NewReader(`{"timeIndex":1}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if v.TimeLabel != "12:00 UTC" {
		t.Fatalf("label = %q after slider move", v.TimeLabel)
	}
	if v.Rects[0].Tooltip != "5.00 TECU" {
		t.Fatalf("tooltip = %q", v.Rects[0].Tooltip)
	}

	if sel := state.Selection(); sel.TimeIndex != 1 || sel.Date != "20250829" {
		t.Fatalf("state selection = %+v", sel)
	}
}

// TestJumpToLatestEndpoint exercises the "today" action.
func TestJumpToLatestEndpoint(t *testing.T) {
	app, state := newTestApp(t, testTree())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/selection/latest", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if state.Selection().Date != "20250829" {
		t.Fatalf("date = %q", state.Selection().Date)
	}
}

// TestJumpToLatestUnavailable verifies a dead pointer maps to 502, not a
// crash, and leaves the selection usable.
func TestJumpToLatestUnavailable(t *testing.T) {
	app, state := newTestApp(t, map[string]string{})
	state.SetDate("20250829")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/selection/latest", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status %d, want %d", resp.StatusCode, http.StatusBadGateway)
	}
	if state.Selection().Date != "20250829" {
		t.Fatalf("failed jump moved the selection to %q", state.Selection().Date)
	}
}

func TestGetSelection(t *testing.T) {
	app, state := newTestApp(t, testTree())
	state.SetDate("20250829")
	state.SetTimes([]string{"0000", "1200"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/selection", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sel selectionView
	if err := json.NewDecoder(resp.Body).Decode(&sel); err != nil {
		t.Fatalf("decode selection: %v", err)
	}
	if sel.Date != "2025-08-29" {
		t.Fatalf("date = %q, want ISO form", sel.Date)
	}
	if len(sel.Times) != 2 {
		t.Fatalf("times = %v", sel.Times)
	}
}

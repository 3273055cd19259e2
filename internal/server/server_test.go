package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/timeruler/pkg/errors"
	"github.com/matzehuels/timeruler/pkg/observability"
	"github.com/matzehuels/timeruler/pkg/pipeline"
	"github.com/matzehuels/timeruler/pkg/ruler/layout"
	"github.com/matzehuels/timeruler/pkg/ruler/view"
	"github.com/matzehuels/timeruler/pkg/timeline"
)

var (
	june1  = timeline.MustParseDate("2023-06-01")
	june3  = timeline.MustParseDate("2023-06-03")
	june10 = timeline.MustParseDate("2023-06-10")
)

func scenarioData() timeline.Data {
	return timeline.Data{
		Entries: []timeline.Entry{
			timeline.NewEntry(june1, 1, 0),
			timeline.NewEntry(june3, 2, 4),
			timeline.NewEntry(june10, 1, 0),
		},
		StartDate: june1,
		EndDate:   june10,
		TotalDays: 10,
	}
}

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	logger := log.New(&bytes.Buffer{})
	base := pipeline.Options{
		Clock: func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) },
	}
	s := New(pipeline.NewRunner(nil, nil, logger), base, cfg, logger)
	s.SetData(scenarioData())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, resp))
}

func TestSecurityHeaders(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestTimeline(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, ts.URL+"/api/timeline", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decode[timeline.Data](t, resp)
	assert.Len(t, data.Entries, 3)
	assert.Equal(t, 10, data.TotalDays)
	assert.Equal(t, june3, data.Entries[1].Date)
	assert.True(t, data.Entries[1].HasPhotos)
}

func TestYears(t *testing.T) {
	s, ts := newTestServer(t, Config{})
	s.SetData(timeline.Data{
		Entries: []timeline.Entry{
			timeline.NewEntry(timeline.MustParseDate("2022-12-31"), 1, 0),
			timeline.NewEntry(timeline.MustParseDate("2023-01-01"), 1, 0),
		},
		TotalDays: 2,
	})

	resp := do(t, http.MethodGet, ts.URL+"/api/years", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	years := decode[[]layout.YearMarker](t, resp)
	require.Len(t, years, 2)
	assert.Equal(t, 2023, years[0].Year)
	assert.InDelta(t, 0.8, years[0].Opacity, 1e-9)
	assert.Equal(t, 2022, years[1].Year)
	assert.InDelta(t, 0.6, years[1].Opacity, 1e-9)

	resp = do(t, http.MethodGet, ts.URL+"/api/years?year=2023", nil)
	years = decode[[]layout.YearMarker](t, resp)
	assert.InDelta(t, 1.0, years[0].Opacity, 1e-9)

	resp = do(t, http.MethodGet, ts.URL+"/api/years?year=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLayout(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	tests := []struct {
		name       string
		query      string
		wantOffset float64
		wantFocus  timeline.Date
	}{
		{"explicit focus", "?focus=2023-06-03", -8, june3},
		{"default focus is the middle bar", "", -8, june3},
		{"no focus", "?focus=none", 0, timeline.Date{}},
		{"unknown focus", "?focus=2023-06-02", 0, timeline.MustParseDate("2023-06-02")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodGet, ts.URL+"/api/layout"+tt.query, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			l := decode[layout.Layout](t, resp)
			assert.InDelta(t, tt.wantOffset, l.OffsetY, 1e-9)
			assert.Equal(t, tt.wantFocus, l.State.Focus)
			assert.Len(t, l.Bars, 3)
		})
	}
}

func TestLayoutInactiveFocusIsNeutral(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, ts.URL+"/api/layout?focus=2023-06-02", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	l := decode[layout.Layout](t, resp)
	for _, b := range l.Bars {
		assert.Equal(t, 1.0, b.Magnification, "bar %s", b.Date)
		assert.Equal(t, l.BaseHeight, b.Height, "bar %s", b.Date)
	}
}

func TestLayoutInvalidDate(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, ts.URL+"/api/layout?focus=june", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[errorResponse](t, resp)
	assert.Equal(t, errors.ErrCodeInvalidDate, body.Code)
	assert.NotEmpty(t, body.Message)
}

func TestRulerSVG(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, ts.URL+"/ruler.svg?focus=2023-06-03&labels=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "<svg"))
	assert.Contains(t, buf.String(), `data-date="2023-06-03"`)
}

func TestViewLifecycle(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	resp := do(t, http.MethodPost, ts.URL+"/api/views", map[string]string{"current": "2023-06-10"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[viewResponse](t, resp)
	_, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	assert.Equal(t, june3, created.Layout.State.Focus)
	assert.Equal(t, june10, created.Summary.Date)

	base := ts.URL + "/api/views/" + created.ID

	resp = do(t, http.MethodPost, base+"/click", map[string]string{"date": "2023-06-01"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	clicked := decode[viewResponse](t, resp)
	assert.Equal(t, june1, clicked.Layout.State.Focus)
	assert.Equal(t, june1, clicked.Layout.State.Current)
	assert.Equal(t, 1, clicked.Summary.EntryCount)

	resp = do(t, http.MethodPost, base+"/hover", map[string]string{"date": "2023-06-10"})
	hovered := decode[viewResponse](t, resp)
	assert.Equal(t, june10, hovered.Layout.State.Hovered)
	bar, ok := hovered.Layout.Bar(june10)
	require.True(t, ok)
	assert.Equal(t, layout.StateHovered, bar.State)

	resp = do(t, http.MethodDelete, base+"/hover", nil)
	left := decode[viewResponse](t, resp)
	assert.True(t, left.Layout.State.Hovered.IsZero())

	resp = do(t, http.MethodGet, base+"/summary", nil)
	summary := decode[view.Summary](t, resp)
	assert.Equal(t, june1, summary.Date)

	resp = do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeViewNotFound, decode[errorResponse](t, resp).Code)
}

func TestCreateViewPicksRandomCurrent(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp := do(t, http.MethodPost, ts.URL+"/api/views", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[viewResponse](t, resp)

	current := created.Layout.State.Current
	assert.Contains(t, []timeline.Date{june1, june3, june10}, current)
}

func TestViewErrors(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	resp := do(t, http.MethodGet, ts.URL+"/api/views/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/api/views/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPost, ts.URL+"/api/views", nil)
	id := decode[viewResponse](t, resp).ID

	resp = do(t, http.MethodPost, ts.URL+"/api/views/"+id+"/click", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "missing date")

	resp = do(t, http.MethodPost, ts.URL+"/api/views/"+id+"/click", map[string]string{"date": "06/01/2023"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "malformed date")
}

func TestRateLimit(t *testing.T) {
	_, ts := newTestServer(t, Config{RateLimit: 2})
	for range 2 {
		resp := do(t, http.MethodGet, ts.URL+"/healthz", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestReload(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	path := filepath.Join(t.TempDir(), "data.json")

	// Broken files keep the previous snapshot.
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	s.reload(path)
	assert.Len(t, s.Data().Entries, 3)

	next := scenarioData()
	next.Entries = next.Entries[:1]
	next.TotalDays = 1
	next.EndDate = june1
	require.NoError(t, timeline.WriteDataFile(path, next))
	s.reload(path)
	assert.Len(t, s.Data().Entries, 1)
}

func TestLoad(t *testing.T) {
	logger := log.New(&bytes.Buffer{})
	s := New(nil, pipeline.Options{Seed: 1}, Config{}, logger)
	require.NoError(t, s.Load(t.Context()))
	assert.Equal(t, 730, s.Data().TotalDays)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	RegisterLogHooks(logger)
	t.Cleanup(observability.Reset)

	s := New(pipeline.NewRunner(nil, nil, logger), pipeline.Options{}, Config{}, logger)
	s.SetData(scenarioData())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp := do(t, http.MethodGet, ts.URL+"/api/layout?focus=2023-06-03", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := buf.String()
	assert.Contains(t, out, "layout start")
	assert.Contains(t, out, "served")
	assert.Contains(t, out, "route=/api/layout")
}

package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calpicker/internal/config"
	"calpicker/internal/picker"
)

func utc(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestServer(t *testing.T, cfg *config.Config, opts picker.Options) (*Server, *[]time.Time) {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if opts.SelectedDate.IsZero() {
		opts.SelectedDate = utc(2024, time.January, 31)
	}
	emitted := &[]time.Time{}
	opts.OnDateChange = func(d time.Time) { *emitted = append(*emitted, d) }
	s, err := NewServer(cfg, opts, "")
	require.NoError(t, err)
	return s, emitted
}

func do(t *testing.T, h http.Handler, method, target, body string, jsonAPI bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if jsonAPI {
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) stateResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var st stateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	return st
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil, picker.Options{})
	rec := do(t, s.Handler(), http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestPage(t *testing.T) {
	s, _ := newTestServer(t, nil, picker.Options{})
	rec := do(t, s.Handler(), http.MethodGet, "/", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "January 2024")

	rec = do(t, s.Handler(), http.MethodGet, "/nope", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFormActionsRedirect(t *testing.T) {
	s, emitted := newTestServer(t, nil, picker.Options{})

	rec := do(t, s.Handler(), http.MethodPost, "/tap?day=10", "", false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, []time.Time{utc(2024, time.January, 10)}, *emitted)
}

func TestNextOverflowScenario(t *testing.T) {
	s, emitted := newTestServer(t, nil, picker.Options{})

	st := decodeState(t, do(t, s.Handler(), http.MethodPost, "/next", "", true))
	require.NotNil(t, st.Accepted)
	assert.True(t, *st.Accepted)
	assert.Equal(t, "February 2024", st.View.Header.Title)
	assert.Equal(t, "2024-03-02", st.Date)
	assert.Equal(t, "2024-03-02", st.LastEmit)
	assert.Equal(t, []time.Time{utc(2024, time.March, 2)}, *emitted)
}

func TestTapIgnoredOutsideBounds(t *testing.T) {
	s, emitted := newTestServer(t, nil, picker.Options{
		SelectedDate: utc(2024, time.January, 15),
		MaxDate:      utc(2024, time.January, 20),
	})

	st := decodeState(t, do(t, s.Handler(), http.MethodPost, "/tap?day=25", "", true))
	assert.False(t, *st.Accepted)
	assert.Empty(t, *emitted)

	st = decodeState(t, do(t, s.Handler(), http.MethodPost, "/next", "", true))
	assert.False(t, *st.Accepted)
	assert.True(t, st.View.Header.NextDisabled)

	rec := do(t, s.Handler(), http.MethodPost, "/tap?day=abc", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviousWrapsYear(t *testing.T) {
	s, emitted := newTestServer(t, nil, picker.Options{SelectedDate: utc(2024, time.January, 15)})

	st := decodeState(t, do(t, s.Handler(), http.MethodPost, "/previous", "", true))
	assert.Equal(t, "December 2023", st.View.Header.Title)
	assert.Equal(t, []time.Time{utc(2023, time.December, 15)}, *emitted)
}

func TestSetSelectedDoesNotEmit(t *testing.T) {
	s, emitted := newTestServer(t, nil, picker.Options{})

	st := decodeState(t, do(t, s.Handler(), http.MethodPut, "/api/selected", `{"date":"2025-07-04"}`, true))
	assert.Equal(t, "2025-07-04", st.Date)
	assert.Equal(t, "July 2025", st.View.Header.Title)
	assert.Empty(t, *emitted)

	rec := do(t, s.Handler(), http.MethodPut, "/api/selected", `{"date":"07/04/2025"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkedDays(t *testing.T) {
	s, _ := newTestServer(t, nil, picker.Options{MarkedDays: []time.Time{utc(2024, time.January, 2)}})

	s.SetExtraMarkedDays([]time.Time{utc(2024, time.January, 5), utc(2024, time.January, 2)})
	st := decodeState(t, do(t, s.Handler(), http.MethodGet, "/api/state", "", true))
	assert.Equal(t, []string{"2024-01-02", "2024-01-05"}, st.MarkedDays)

	// Replacing the configured days keeps the refreshed ones.
	st = decodeState(t, do(t, s.Handler(), http.MethodPut, "/api/marked", `{"dates":["2024-01-09"]}`, true))
	assert.Equal(t, []string{"2024-01-02", "2024-01-05", "2024-01-09"}, st.MarkedDays)

	var marked []int
	for _, row := range st.View.Grid {
		for _, c := range row {
			if c.Marked {
				marked = append(marked, c.Day)
			}
		}
	}
	assert.Equal(t, []int{2, 5, 9}, marked)

	rec := do(t, s.Handler(), http.MethodPut, "/api/marked", `{"dates":["bad"]}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPutMarkedKeepsRefreshedDays(t *testing.T) {
	s, _ := newTestServer(t, nil, picker.Options{SelectedDate: utc(2024, time.March, 1)})

	s.SetExtraMarkedDays([]time.Time{utc(2024, time.March, 20)})
	st := decodeState(t, do(t, s.Handler(), http.MethodPut, "/api/marked", `{"dates":["2024-03-08"]}`, true))
	assert.Equal(t, []string{"2024-03-08", "2024-03-20"}, st.MarkedDays)

	// A later refresh replaces only the refreshed days.
	s.SetExtraMarkedDays([]time.Time{utc(2024, time.March, 22)})
	st = decodeState(t, do(t, s.Handler(), http.MethodGet, "/api/state", "", true))
	assert.Equal(t, []string{"2024-03-08", "2024-03-22"}, st.MarkedDays)
}

func TestBasicAuth(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "u", Password: "p"}
	s, _ := newTestServer(t, cfg, picker.Options{})
	h := s.Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "", false).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/", "", false).Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("u", "p")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetrics(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Metrics = true
	s, _ := newTestServer(t, cfg, picker.Options{})
	h := s.Handler()

	do(t, h, http.MethodPost, "/tap?day=3", "", false)
	do(t, h, http.MethodPost, "/next", "", false)
	s.RecordRefresh(nil)

	rec := do(t, h, http.MethodGet, "/metrics", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "calpicker_date_changes_total 2")
	assert.Contains(t, body, `calpicker_taps_total{result="accepted"} 1`)
	assert.Contains(t, body, `calpicker_navigations_total{direction="next",result="accepted"} 1`)
	assert.Contains(t, body, `calpicker_marked_refreshes_total{result="accepted"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	s, _ := newTestServer(t, nil, picker.Options{})
	assert.Equal(t, http.StatusNotFound, do(t, s.Handler(), http.MethodGet, "/metrics", "", false).Code)
}

func TestPreview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG"), 0o600))

	s, err := NewServer(config.DefaultConfig(), picker.Options{SelectedDate: utc(2024, time.January, 1)}, path)
	require.NoError(t, err)
	rec := do(t, s.Handler(), http.MethodGet, "/preview.png", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "\x89PNG", rec.Body.String())
}

func TestNewServerRejectsInvalidOptions(t *testing.T) {
	_, err := NewServer(config.DefaultConfig(), picker.Options{}, "")
	assert.ErrorIs(t, err, picker.ErrInvalidOptions)
}

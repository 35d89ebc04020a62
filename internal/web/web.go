package web

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"calpicker/internal/config"
	"calpicker/internal/dateutil"
	appLog "calpicker/internal/log"
	"calpicker/internal/picker"
	"calpicker/internal/render"
)

// Server hosts one picker over HTTP. The picker is single-owner, so every
// handler touching it holds mu for the whole transition.
type Server struct {
	cfg         *config.Config
	mux         *http.ServeMux
	metrics     *metrics
	previewPath string

	mu       sync.Mutex
	picker   *picker.Picker
	base     []time.Time // marked days from config or PUT /api/marked
	extra    []time.Time // marked days from the last ICS refresh
	lastDate time.Time
}

// NewServer builds the picker from opts and wires its date callback into
// logging and metrics. previewPath is served at /preview.png.
func NewServer(cfg *config.Config, opts picker.Options, previewPath string) (*Server, error) {
	s := &Server{
		cfg:         cfg,
		mux:         http.NewServeMux(),
		metrics:     newMetrics(),
		previewPath: previewPath,
		base:        append([]time.Time(nil), opts.MarkedDays...),
	}

	hostCallback := opts.OnDateChange
	opts.OnDateChange = func(t time.Time) {
		// Runs inside a handler that already holds mu.
		s.lastDate = t
		s.metrics.dateChanges.Inc()
		appLog.Info("date changed", "date", t.Format(time.DateOnly))
		if hostCallback != nil {
			hostCallback(t)
		}
	}

	p, err := picker.New(opts)
	if err != nil {
		return nil, err
	}
	s.picker = p
	s.lastDate = p.Date()
	s.metrics.markedDays.Set(float64(len(opts.MarkedDays)))

	s.registerRoutes()
	return s, nil
}

// Handler returns the root handler, wrapped with Basic Auth if configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware guards everything except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="calpicker", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Serve listens on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+addr, "basic_auth", s.basicAuthEnabled())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handlePage)
	s.mux.HandleFunc("POST /tap", s.handleTap)
	s.mux.HandleFunc("POST /next", s.handleNavigate("next"))
	s.mux.HandleFunc("POST /previous", s.handleNavigate("previous"))
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("PUT /api/selected", s.handleSetSelected)
	s.mux.HandleFunc("PUT /api/marked", s.handleSetMarked)
	s.mux.HandleFunc("GET /preview.png", s.handlePreview)
	if s.cfg != nil && s.cfg.Metrics {
		s.mux.Handle("GET /metrics", s.metrics.handler())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	v := s.picker.View()
	s.mu.Unlock()

	var buf bytes.Buffer
	if err := render.HTML(&buf, v, ""); err != nil {
		appLog.Error("render page failed", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleTap taps ?day=N. Taps on disabled or placeholder days are accepted
// as requests but change nothing.
func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(r.URL.Query().Get("day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "day must be an integer")
		return
	}

	s.mu.Lock()
	ok := s.picker.TapDay(day)
	s.mu.Unlock()

	s.metrics.taps.WithLabelValues(outcome(ok)).Inc()
	appLog.Debug("tap", "day", day, "accepted", ok)
	s.respondAction(w, r, ok)
}

func (s *Server) handleNavigate(direction string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var ok bool
		if direction == "next" {
			ok = s.picker.Next()
		} else {
			ok = s.picker.Previous()
		}
		shown := s.picker.Displayed()
		s.mu.Unlock()

		s.metrics.navigations.WithLabelValues(direction, outcome(ok)).Inc()
		appLog.Debug("navigate", "direction", direction, "accepted", ok, "year", shown.Year, "month", shown.Month)
		s.respondAction(w, r, ok)
	}
}

// respondAction redirects browsers back to the page and answers API
// clients with the new state.
func (s *Server) respondAction(w http.ResponseWriter, r *http.Request, accepted bool) {
	if wantsJSON(r) {
		st := s.snapshot()
		st.Accepted = &accepted
		writeJSON(w, http.StatusOK, st)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// stateResponse is the JSON shape for /api/state and API actions.
type stateResponse struct {
	Date       string      `json:"date"`
	LastEmit   string      `json:"last_emitted"`
	View       picker.View `json:"view"`
	MarkedDays []string    `json:"marked_days"`
	Accepted   *bool       `json:"accepted,omitempty"`
}

func (s *Server) snapshot() stateResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	marked := s.picker.MarkedDays()
	days := make([]string, 0, len(marked))
	for _, d := range marked {
		days = append(days, d.Format(time.DateOnly))
	}
	return stateResponse{
		Date:       s.picker.Date().Format(time.DateOnly),
		LastEmit:   s.lastDate.Format(time.DateOnly),
		View:       s.picker.View(),
		MarkedDays: days,
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot())
}

type selectedRequest struct {
	Date string `json:"date"`
}

// handleSetSelected is the host overwriting the selection. It does not
// count as a user change.
func (s *Server) handleSetSelected(w http.ResponseWriter, r *http.Request) {
	var req selectedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	t, err := dateutil.ParseDate(req.Date, s.location())
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	s.mu.Lock()
	s.picker.SetSelectedDate(t)
	s.mu.Unlock()

	appLog.Info("selected date set by host", "date", req.Date)
	writeJSON(w, http.StatusOK, s.snapshot())
}

type markedRequest struct {
	Dates []string `json:"dates"`
}

// handleSetMarked replaces the configured marked days. ICS refreshes merge
// on top of them.
func (s *Server) handleSetMarked(w http.ResponseWriter, r *http.Request) {
	var req markedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	days := make([]time.Time, 0, len(req.Dates))
	for _, d := range req.Dates {
		t, err := dateutil.ParseDate(d, s.location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date "+strconv.Quote(d))
			return
		}
		days = append(days, t)
	}

	s.mu.Lock()
	s.base = days
	n := s.applyMarkedLocked()
	s.mu.Unlock()
	s.metrics.markedDays.Set(float64(n))

	writeJSON(w, http.StatusOK, s.snapshot())
}

// SetExtraMarkedDays merges days (typically from ICS feeds) with the
// configured marked days.
func (s *Server) SetExtraMarkedDays(days []time.Time) {
	s.mu.Lock()
	s.extra = append([]time.Time(nil), days...)
	n := s.applyMarkedLocked()
	s.mu.Unlock()
	s.metrics.markedDays.Set(float64(n))
}

// applyMarkedLocked pushes base and extra days into the picker. Callers
// hold mu.
func (s *Server) applyMarkedLocked() int {
	merged := mergeDays(s.base, s.extra)
	s.picker.SetMarkedDays(merged)
	return len(merged)
}

// RecordRefresh counts a marked-day refresh outcome.
func (s *Server) RecordRefresh(err error) {
	s.metrics.refreshes.WithLabelValues(outcome(err == nil)).Inc()
}

func mergeDays(a, b []time.Time) []time.Time {
	out := make([]time.Time, 0, len(a)+len(b))
	for _, d := range append(append([]time.Time(nil), a...), b...) {
		dup := false
		for _, o := range out {
			if o.Equal(d) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (s *Server) location() *time.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.picker.State().Location
}

// handlePreview serves the last captured PNG.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if s.previewPath == "" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, s.previewPath)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

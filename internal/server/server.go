// Package server exposes a live chart over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chartwerk/line-chart/core"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// requestTimeout bounds how long a request waits for the event loop.
const requestTimeout = 5 * time.Second

// Pointer input kinds accepted by POST /pointer.
const (
	PointerEnter = "enter"
	PointerMove  = "move"
	PointerLeave = "leave"
)

// PointerInput is the body of POST /pointer.
type PointerInput struct {
	Type string  `json:"type"`
	PX   float64 `json:"px"`
	PY   float64 `json:"py"`
}

// Health is the body of GET /healthz.
type Health struct {
	Status    string                 `json:"status"`
	Chart     string                 `json:"chart"`
	Crosshair schema.CrosshairStatus `json:"crosshair"`
	Series    int                    `json:"series"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Server routes HTTP requests onto one chart. Every chart access goes through the loop.
type Server struct {
	router  *mux.Router
	server  *http.Server
	loop    *core.EventLoop
	chart   *core.LineChart
	metrics http.Handler
}

// New creates a server for chart. metrics may be nil, in which case /metrics is not routed.
func New(addr string, loop *core.EventLoop, chart *core.LineChart, metrics http.Handler) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		loop:    loop,
		chart:   chart,
		metrics: metrics,
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(requestIDMiddleware)

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics).Methods(http.MethodGet)
	}

	api := s.router.PathPrefix("/").Subrouter()
	api.Use(jsonContentTypeMiddleware)
	api.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/series", s.handleSeries).Methods(http.MethodGet)
	api.HandleFunc("/crosshair", s.handleCrosshair).Methods(http.MethodGet)
	api.HandleFunc("/pointer", s.handlePointer).Methods(http.MethodPost)
	api.HandleFunc("/probe", s.handleProbe).Methods(http.MethodPost)
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown. A graceful shutdown is not an error.
func (s *Server) Start() error {
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var health Health
	err := s.onLoop(r.Context(), func() error {
		health = Health{
			Status:    "ok",
			Chart:     s.chart.ID(),
			Crosshair: s.chart.State().Status,
			Series:    len(s.chart.Series()),
		}
		return nil
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, health)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	var summaries []schema.SeriesSummary
	err := s.onLoop(r.Context(), func() error {
		summaries = schema.SummarizeSeries(s.chart.Series())
		return nil
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleCrosshair(w http.ResponseWriter, r *http.Request) {
	var state schema.CrosshairState
	err := s.onLoop(r.Context(), func() error {
		state = s.chart.State()
		return nil
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var input PointerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid pointer input: %w", err))
		return
	}

	var state schema.CrosshairState
	err := s.onLoop(r.Context(), func() error {
		var err error
		switch input.Type {
		case PointerEnter:
			err = s.chart.PointerEnter()
		case PointerMove:
			err = s.chart.PointerMove(schema.PointerEvent{PX: input.PX, PY: input.PY})
		case PointerLeave:
			err = s.chart.PointerLeave()
		default:
			return errBadInput{fmt.Errorf("unknown pointer type %q. must be enter, move, leave", input.Type)}
		}
		state = s.chart.State()
		return err
	})
	var bad errBadInput
	switch {
	case errors.As(err, &bad):
		writeError(w, http.StatusBadRequest, bad.err)
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		writeJSON(w, http.StatusOK, state)
	}
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	var coords schema.SharedCoords
	if err := json.NewDecoder(r.Body).Decode(&coords); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid probe position: %w", err))
		return
	}

	var result schema.ProbeResult
	err := s.onLoop(r.Context(), func() error {
		result = s.chart.Probe(coords)
		return nil
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) onLoop(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	return s.loop.Do(ctx, fn)
}

// errBadInput marks a request the chart rejected before acting on it.
type errBadInput struct{ err error }

func (e errBadInput) Error() string { return e.err.Error() }

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", uuid.NewString()[:8])
		next.ServeHTTP(w, r)
	})
}

func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		contract.LogWarn("Failed to write response", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

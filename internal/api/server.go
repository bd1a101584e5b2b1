// Package api exposes the pond simulation over HTTP. GET endpoints are
// read-only observation; POST endpoints mutate the hosted simulation and
// honor an optional bearer token. The server holds at most one simulation
// at a time behind a single-writer lock.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/talgya/pondlife/internal/entropy"
	"github.com/talgya/pondlife/internal/environment"
	"github.com/talgya/pondlife/internal/metrics"
	"github.com/talgya/pondlife/internal/organism"
	"github.com/talgya/pondlife/internal/persistence"
	"github.com/talgya/pondlife/internal/sim"
)

// ErrNotInitialized reports that no simulation has been created yet.
var ErrNotInitialized = errors.New("model is not initialized")

// maxStepsPerRequest bounds a single /run call so one request cannot hold
// the write lock indefinitely.
const maxStepsPerRequest = 100000

// Server hosts one simulation instance behind a single-writer lock.
type Server struct {
	Port     int
	AdminKey string          // Bearer token for POST endpoints. Empty = POSTs open.
	DB       *persistence.DB // Optional metrics history sink. Nil = history disabled.

	// Defaults applied when an init request omits parameters.
	DefaultWidth  int
	DefaultHeight int
	DefaultMonth  int

	mu         sync.Mutex
	simulation *sim.Simulation
	params     runParams
}

type runParams struct {
	Width  int
	Height int
	Month  int
	Seed   int64
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Control plane (POST).
	mux.HandleFunc("/api/v1/init", s.adminOnly(s.handleInit))
	mux.HandleFunc("/api/v1/run", s.adminOnly(s.handleRun))
	mux.HandleFunc("/api/v1/save", s.adminOnly(s.handleSave))

	// Observation (GET).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/metrics", s.handleMetrics)
	mux.HandleFunc("/api/v1/metrics/summary", s.handleSummary)
	mux.HandleFunc("/api/v1/metrics.csv", s.handleMetricsCSV)
	mux.HandleFunc("/api/v1/grid", s.handleGrid)
	mux.HandleFunc("/api/v1/map", s.handleMap)

	// Recorded-run history (GET, requires the history database).
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/runs/", s.handleRunHistory)

	return mux
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "history", s.DB != nil)

	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly restricts a handler to POST and, when an admin key is set,
// requires its bearer token.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey != "" && !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Month  int    `json:"month"`
		Seed   *int64 `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if req.Width == 0 {
		req.Width = s.DefaultWidth
	}
	if req.Height == 0 {
		req.Height = s.DefaultHeight
	}
	if req.Month == 0 {
		req.Month = s.DefaultMonth
	}
	// Months are clamped at the HTTP boundary; the core rejects instead.
	if req.Month < 1 {
		req.Month = 1
	}
	if req.Month > 12 {
		req.Month = 12
	}

	seed := entropy.Seed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	instance, err := sim.New(req.Width, req.Height, req.Month, seed)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sim.ErrInvalidConfig) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	s.mu.Lock()
	s.simulation = instance
	s.params = runParams{Width: req.Width, Height: req.Height, Month: req.Month, Seed: seed}
	s.mu.Unlock()

	writeJSON(w, map[string]any{
		"message": fmt.Sprintf("model initialized with month: %d", req.Month),
		"width":   req.Width,
		"height":  req.Height,
		"seed":    seed,
	})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Steps int `json:"steps"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Steps < 0 {
		http.Error(w, "steps must be >= 0", http.StatusBadRequest)
		return
	}
	if req.Steps > maxStepsPerRequest {
		http.Error(w, fmt.Sprintf("steps must be <= %d", maxStepsPerRequest), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.simulation == nil {
		http.Error(w, ErrNotInitialized.Error(), http.StatusBadRequest)
		return
	}

	s.simulation.Run(req.Steps)
	records := s.simulation.Metrics()

	slog.Info("run complete",
		"steps", req.Steps,
		"tick", s.simulation.CurrentTick(),
		"population", s.simulation.Population(),
	)
	writeJSON(w, map[string]any{
		"tick":    s.simulation.CurrentTick(),
		"records": records,
	})
}

// handleSave persists the current run's metrics history and returns the
// new run identifier.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "history database not available", http.StatusServiceUnavailable)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.simulation == nil {
		http.Error(w, ErrNotInitialized.Error(), http.StatusBadRequest)
		return
	}

	records := s.simulation.Metrics()
	runID, err := s.DB.SaveRun(s.params.Width, s.params.Height, s.params.Month, s.params.Seed, records)
	if err != nil {
		slog.Error("save run failed", "error", err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}

	slog.Info("run saved", "run_id", runID, "ticks", len(records))
	writeJSON(w, map[string]any{"run_id": runID, "ticks": len(records)})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.simulation == nil {
		writeJSON(w, map[string]any{"initialized": false})
		return
	}

	env := s.simulation.Environment()
	writeJSON(w, map[string]any{
		"initialized":   true,
		"tick":          s.simulation.CurrentTick(),
		"population":    s.simulation.Population(),
		"width":         s.params.Width,
		"height":        s.params.Height,
		"seed":          s.params.Seed,
		"month":         env.Month,
		"season":        environment.SeasonOf(env.Month).String(),
		"water_quality": env.WaterQuality,
		"temperature":   env.Temperature,
		"category":      env.Category.String(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.simulation == nil {
		http.Error(w, ErrNotInitialized.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, s.simulation.Metrics())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.simulation == nil {
		http.Error(w, ErrNotInitialized.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, metrics.Summarize(s.simulation.Metrics()))
}

func (s *Server) handleMetricsCSV(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.simulation == nil {
		http.Error(w, ErrNotInitialized.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="metrics.csv"`)
	if err := metrics.WriteCSV(w, s.simulation.Metrics()); err != nil {
		slog.Error("metrics csv export failed", "error", err)
	}
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.simulation == nil {
		http.Error(w, ErrNotInitialized.Error(), http.StatusBadRequest)
		return
	}

	type cellEntry struct {
		X     int            `json:"x"`
		Y     int            `json:"y"`
		ID    organism.ID    `json:"id"`
		State organism.State `json:"state"`
	}

	snapshot := s.simulation.GridSnapshot()
	cells := make([]cellEntry, 0, len(snapshot))
	for c, cs := range snapshot {
		cells = append(cells, cellEntry{X: c.X, Y: c.Y, ID: cs.ID, State: cs.State})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})

	width, height := s.simulation.GridSize()
	writeJSON(w, map[string]any{
		"width":  width,
		"height": height,
		"cells":  cells,
	})
}

// handleMap returns the static pond-floor depth field for renderers.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.simulation == nil {
		http.Error(w, ErrNotInitialized.Error(), http.StatusBadRequest)
		return
	}

	d := s.simulation.Depth()
	writeJSON(w, map[string]any{
		"width":  d.Width(),
		"height": d.Height(),
		"depths": d.Values(),
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "history database not available", http.StatusServiceUnavailable)
		return
	}

	limit := 30
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	runs, err := s.DB.Runs(limit)
	if err != nil {
		slog.Error("runs query failed", "error", err)
		writeJSON(w, []persistence.RunInfo{})
		return
	}
	if runs == nil {
		runs = []persistence.RunInfo{}
	}
	writeJSON(w, runs)
}

// handleRunHistory serves GET /api/v1/runs/:id/metrics with optional
// from/to/limit query parameters.
func (s *Server) handleRunHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "history database not available", http.StatusServiceUnavailable)
		return
	}

	parts := strings.Split(r.URL.Path, "/")
	// /api/v1/runs/:id/metrics → parts[0]="" [1]="api" [2]="v1" [3]="runs" [4]=id [5]="metrics"
	if len(parts) < 6 || parts[4] == "" || parts[5] != "metrics" {
		http.Error(w, "usage: /api/v1/runs/:id/metrics", http.StatusBadRequest)
		return
	}
	runID := parts[4]

	fromTick := uint64(0)
	toTick := uint64(1<<63 - 1) // Max int64 — avoids uint64 high-bit SQLite driver issue.
	limit := 1000

	if f := r.URL.Query().Get("from"); f != "" {
		if v, err := strconv.ParseUint(f, 10, 64); err == nil {
			fromTick = v
		}
	}
	if t := r.URL.Query().Get("to"); t != "" {
		if v, err := strconv.ParseUint(t, 10, 64); err == nil {
			toTick = v
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 10000 {
			limit = v
		}
	}

	rows, err := s.DB.LoadHistory(runID, fromTick, toTick, limit)
	if err != nil {
		slog.Error("run history query failed", "error", err, "run_id", runID)
		writeJSON(w, []metrics.Record{})
		return
	}
	if rows == nil {
		rows = []metrics.Record{}
	}
	writeJSON(w, rows)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

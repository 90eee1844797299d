// Package api provides the read-only HTTP API for observing the town.
// Every endpoint is a GET; nothing here mutates simulation state.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/cozy-town/internal/agents"
	"github.com/talgya/cozy-town/internal/clock"
	"github.com/talgya/cozy-town/internal/engine"
	"github.com/talgya/cozy-town/internal/feed"
	"github.com/talgya/cozy-town/internal/persistence"
	"github.com/talgya/cozy-town/internal/relations"
)

// Server serves the town state over HTTP.
type Server struct {
	Sim     *engine.Simulation
	Eng     *engine.Engine
	Journal *persistence.Journal // optional
	Feed    *feed.RedisSink      // optional
	Port    int

	// ReportLimit caps report renders per client per minute. Zero uses 30.
	ReportLimit int
}

// Handler builds the API's routes.
func (s *Server) Handler() http.Handler {
	limit := s.ReportLimit
	if limit <= 0 {
		limit = 30
	}
	reportLimiter := NewRateLimiter(limit, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/agents", s.handleAgents)
	mux.HandleFunc("GET /api/v1/relation", s.handleRelation)
	mux.HandleFunc("GET /api/v1/romance/{id}", s.handleRomance)
	mux.HandleFunc("GET /api/v1/trending", s.handleTrending)
	mux.HandleFunc("GET /api/v1/highlights", s.handleHighlights)
	mux.HandleFunc("GET /api/v1/report", RateLimitMiddleware(reportLimiter, s.handleReport))
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)
	mux.HandleFunc("GET /api/v1/milestones", s.handleMilestones)
	mux.HandleFunc("GET /api/v1/feed", s.handleFeed)
	return corsMiddleware(mux)
}

// Start serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("HTTP shutdown", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of extra allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.Sim.Status()
	out := map[string]any{
		"name":     "Cozy Town",
		"tick":     st.Tick,
		"sim_time": st.SimTime,
		"phase":    st.Phase,
		"stats":    st.Stats,
		"counters": st.Counters,
	}
	if s.Eng != nil {
		out["speed"] = s.Eng.Speed
	}
	if s.Journal != nil {
		out["session"] = s.Journal.Session()
	}
	writeJSON(w, out)
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	type agentSummary struct {
		ID    agents.AgentID `json:"id"`
		Name  string         `json:"name"`
		Kind  string         `json:"kind"`
		HP    int            `json:"hp"`
		Q     int            `json:"q"`
		R     int            `json:"r"`
		Alive bool           `json:"alive"`
	}
	all := s.Sim.Agents()
	aliveOnly := r.URL.Query().Get("alive") == "true"

	out := make([]agentSummary, 0, len(all))
	for _, a := range all {
		if aliveOnly && !a.Alive {
			continue
		}
		out = append(out, agentSummary{
			ID: a.ID, Name: a.DisplayName(), Kind: a.Kind.String(),
			HP: a.HP, Q: a.Position.Q, R: a.Position.R, Alive: a.Alive,
		})
	}
	writeJSON(w, out)
}

type relationView struct {
	relations.State
	NameLow  string `json:"name_low"`
	NameHigh string `json:"name_high"`
}

func (s *Server) view(st relations.State) relationView {
	return relationView{State: st, NameLow: s.Sim.Name(st.IDLow), NameHigh: s.Sim.Name(st.IDHigh)}
}

func (s *Server) handleRelation(w http.ResponseWriter, r *http.Request) {
	a, errA := parseID(r.URL.Query().Get("a"))
	b, errB := parseID(r.URL.Query().Get("b"))
	if errA != nil || errB != nil || a == b {
		http.Error(w, "a and b must be two different agent ids", http.StatusBadRequest)
		return
	}
	st, ok := s.Sim.Relation(a, b)
	if !ok {
		http.Error(w, "these two have never met", http.StatusNotFound)
		return
	}
	writeJSON(w, s.view(st))
}

func (s *Server) handleRomance(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid agent id", http.StatusBadRequest)
		return
	}
	agent, ok := s.Sim.Agent(id)
	if !ok {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}

	type partner struct {
		ID   agents.AgentID `json:"id"`
		Name string         `json:"name"`
	}
	ids := s.Sim.RomancePartners(id)
	partners := make([]partner, len(ids))
	for i, pid := range ids {
		partners[i] = partner{ID: pid, Name: s.Sim.Name(pid)}
	}
	writeJSON(w, map[string]any{
		"id":       agent.ID,
		"name":     agent.DisplayName(),
		"alive":    agent.Alive,
		"active":   len(partners) > 0,
		"partners": partners,
	})
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	n := queryInt(r, "n", 10, 100)
	top := s.Sim.Trending(n)
	out := make([]relationView, len(top))
	for i, st := range top {
		out[i] = s.view(st)
	}
	writeJSON(w, out)
}

func (s *Server) handleHighlights(w http.ResponseWriter, r *http.Request) {
	n := queryInt(r, "n", 10, 120)
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, s.Sim.HighlightText(n))
		return
	}
	writeJSON(w, s.Sim.Highlights(n))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("latest") == "true" {
		rep, ok := s.Sim.LatestReport()
		if !ok {
			http.Error(w, "no festival report yet", http.StatusNotFound)
			return
		}
		writeJSON(w, rep)
		return
	}
	kind := clock.ParseUpdateKind(q.Get("kind"))
	writeJSON(w, s.Sim.Report(kind))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	n := queryInt(r, "n", 50, 500)
	writeJSON(w, s.Sim.RecentEvents(n))
}

func (s *Server) handleMilestones(w http.ResponseWriter, r *http.Request) {
	if s.Journal == nil {
		http.Error(w, "journal disabled", http.StatusServiceUnavailable)
		return
	}
	rows, err := s.Journal.RecentMilestones(queryInt(r, "n", 50, 500))
	if err != nil {
		slog.Error("read milestones", "error", err)
		http.Error(w, "journal read failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if s.Feed == nil {
		http.Error(w, "feed disabled", http.StatusServiceUnavailable)
		return
	}
	msgs, err := s.Feed.Recent(r.Context(), queryInt(r, "n", 50, 200))
	if err != nil {
		slog.Error("read feed", "error", err)
		http.Error(w, "feed read failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, msgs)
}

func parseID(s string) (agents.AgentID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errors.New("zero id")
	}
	return agents.AgentID(n), nil
}

// queryInt reads a positive integer parameter, falling back to def when it
// is missing or invalid and capping it at limit.
func queryInt(r *http.Request, name string, def, limit int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	if n > limit {
		return limit
	}
	return n
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

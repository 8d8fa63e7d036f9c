// Package api provides the HTTP API for observing and steering a herbworks
// simulation.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/herbworks/internal/building"
	"github.com/talgya/herbworks/internal/catalog"
	"github.com/talgya/herbworks/internal/engine"
	"github.com/talgya/herbworks/internal/persistence"
)

// Server serves the simulation over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	DB       *persistence.DB // Optional; history is unavailable without it
	RunID    string
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	hub *Hub
}

// Handler builds the routed handler. It is safe to call once per server.
func (s *Server) Handler() http.Handler {
	origins := allowedOrigins()
	s.hub = NewHub(func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origins[origin] || strings.HasSuffix(origin, "://"+r.Host)
	})

	// Limits admin writes per IP.
	adminLimiter := NewRateLimiter(120, time.Minute)
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return s.adminOnly(RateLimitMiddleware(adminLimiter, h))
	}

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/map", s.handleMap)
	mux.HandleFunc("/api/v1/tile", s.handleTile)
	mux.HandleFunc("/api/v1/buildings", s.handleBuildings)
	mux.HandleFunc("/api/v1/stats/history", s.handleStatsHistory)
	mux.HandleFunc("/api/v1/catalog", s.handleCatalog)
	mux.HandleFunc("/api/v1/stream", s.handleStream)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/buildings/place", admin(s.handlePlace))
	mux.HandleFunc("/api/v1/buildings/remove", admin(s.handleRemove))
	mux.HandleFunc("/api/v1/buildings/rotate", admin(s.handleRotate))
	mux.HandleFunc("/api/v1/buildings/rescan", admin(s.handleRescan))
	mux.HandleFunc("/api/v1/buildings/active", admin(s.handleActive))
	mux.HandleFunc("/api/v1/storage/deposit", admin(s.handleDeposit))
	mux.HandleFunc("/api/v1/tick", admin(s.handleTick))
	mux.HandleFunc("/api/v1/speed", admin(s.handleSpeed))

	return corsMiddleware(origins, mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	handler := s.Handler()
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "ledger", s.DB != nil)

	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// PublishStats pushes a stats frame to stream clients.
func (s *Server) PublishStats(st engine.SimStats) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(streamFrame{Type: "stats", Stats: st})
}

type streamFrame struct {
	Type  string          `json:"type"`
	Stats engine.SimStats `json:"stats"`
}

// allowedOrigins reads CORS_ORIGINS (comma-separated). Localhost dev servers
// are always allowed.
func allowedOrigins() map[string]bool {
	origins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				origins[origin] = true
			}
		}
	}
	return origins
}

// corsMiddleware adds CORS headers for allowed frontend origins.
func corsMiddleware(allowed map[string]bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require POST with bearer token auth.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no HERBSIM_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.Sim.Snapshot()
	m := s.Sim.Map

	writeJSON(w, map[string]any{
		"name":     "Herbworks",
		"run_id":   s.RunID,
		"tick":     st.Tick,
		"sim_time": engine.SimTime(st.Tick, s.Eng.Interval),
		"speed":    s.Eng.Speed(),
		"running":  s.Eng.Running(),
		"seed":     m.Seed,
		"width":    m.Width,
		"height":   m.Height,
		"stats":    st,
		"summary":  Summary(st),
	})
}

// Summary renders stats as one human-readable line.
func Summary(st engine.SimStats) string {
	return fmt.Sprintf("%s nodes (%s depleted), %s buildings, %s items held, %s harvested, %s dried",
		humanize.Comma(int64(st.Nodes)),
		humanize.Comma(int64(st.DepletedNodes)),
		humanize.Comma(int64(st.Buildings)),
		humanize.Comma(int64(st.ItemsHeld)),
		humanize.Comma(int64(st.Production.Harvested)),
		humanize.Comma(int64(st.Production.Dried)),
	)
}

// handleMap returns biome rows as indices into a legend, y ascending.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	m := s.Sim.Map
	legend := []catalog.BiomeID{}
	index := map[catalog.BiomeID]int{}
	rows := make([][]int, m.Height)

	// Biomes never change after generation, so no lock is needed.
	for y := 0; y < m.Height; y++ {
		row := make([]int, m.Width)
		for x := 0; x < m.Width; x++ {
			b := m.Get(x, y).Biome
			i, ok := index[b]
			if !ok {
				i = len(legend)
				index[b] = i
				legend = append(legend, b)
			}
			row[x] = i
		}
		rows[y] = row
	}

	writeJSON(w, map[string]any{
		"width":  m.Width,
		"height": m.Height,
		"legend": legend,
		"rows":   rows,
	})
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.Atoi(r.URL.Query().Get("x"))
	y, errY := strconv.Atoi(r.URL.Query().Get("y"))
	if errX != nil || errY != nil {
		http.Error(w, "x and y must be integers", http.StatusBadRequest)
		return
	}

	var view *tileView
	s.Sim.Do(func() {
		t := s.Sim.Map.Get(x, y)
		if t == nil {
			return
		}
		v := viewTile(t, s.Sim.Buildings.At(x, y))
		view = &v
	})
	if view == nil {
		http.Error(w, "tile out of bounds", http.StatusNotFound)
		return
	}
	writeJSON(w, view)
}

func (s *Server) handleBuildings(w http.ResponseWriter, r *http.Request) {
	var filter building.Kind
	if k := r.URL.Query().Get("kind"); k != "" {
		kind, err := building.ParseKind(k)
		if err != nil {
			writeUnknownKind(w, k)
			return
		}
		filter = kind
	}

	views := []buildingView{}
	s.Sim.Do(func() {
		list := s.Sim.Buildings.Buildings()
		if filter != 0 {
			list = s.Sim.Buildings.OfKind(filter)
		}
		for _, b := range list {
			views = append(views, viewBuilding(b))
		}
	})
	writeJSON(w, views)
}

func (s *Server) handleStatsHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	var from, to uint64
	limit := 30
	if f := r.URL.Query().Get("from"); f != "" {
		if v, err := strconv.ParseUint(f, 10, 63); err == nil {
			from = v
		}
	}
	if t := r.URL.Query().Get("to"); t != "" {
		if v, err := strconv.ParseUint(t, 10, 63); err == nil {
			to = v
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
	}

	rows, err := s.DB.StatsHistory(s.RunID, from, to, limit)
	if err != nil {
		slog.Error("stats history query failed", "error", err)
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	kinds := []building.KindInfo{}
	for _, k := range building.Kinds() {
		info, _ := k.Info()
		kinds = append(kinds, info)
	}

	writeJSON(w, map[string]any{
		"biomes":    s.Sim.Catalog.Biomes(),
		"resources": s.Sim.Catalog.Resources(),
		"buildings": kinds,
	})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	s.hub.Serve(w, r, streamFrame{Type: "hello", Stats: s.Sim.Snapshot()})
}

func writeJSON(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

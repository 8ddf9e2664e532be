// Package api serves generated maps over HTTP.
// The legacy route /?get=map and /api/v1/map share one contract: a
// well-formed request gets the encoded map, anything else gets an empty
// JSON response with status 200. A websocket route answers repeated
// requests on one connection, and /api/v1/stats reports aggregate
// generation statistics when a database is configured.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/websocket"

	"github.com/talgya/hexconquest/internal/config"
	"github.com/talgya/hexconquest/internal/entropy"
	"github.com/talgya/hexconquest/internal/mapgen"
	"github.com/talgya/hexconquest/internal/persistence"
	"github.com/talgya/hexconquest/internal/wire"
)

const (
	// Idle websocket connections are closed after this long.
	wsIdleTimeout = 60 * time.Second
	// Time allowed to write one map to the peer.
	wsWriteWait = 10 * time.Second
	// Requests are tiny JSON objects.
	wsMaxMessageSize = 512

	recentLimit = 10
	maxRecent   = 100
)

// errBadRequest marks a map request with missing or unknown parameters.
var errBadRequest = errors.New("bad map request")

// Server serves generated maps over HTTP.
type Server struct {
	Cfg    *config.Config
	Source entropy.Source
	DB     *persistence.DB // nil disables statistics

	limiter  *RateLimiter
	upgrader websocket.Upgrader
	origins  map[string]bool
	started  time.Time
	served   atomic.Int64
}

// NewServer wires a server from configuration. Each map spends one seed
// drawn from src and is generated from that seed. A nil source draws from
// crypto/rand.
func NewServer(cfg *config.Config, src entropy.Source, db *persistence.DB) *Server {
	if src == nil {
		src = entropy.Crypto{}
	}
	s := &Server{
		Cfg:     cfg,
		Source:  src,
		DB:      db,
		limiter: NewRateLimiter(cfg.Server.RateLimit, time.Minute),
		origins: allowedOrigins(cfg.Server.CORSOrigins),
		started: time.Now(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", RateLimitMiddleware(s.limiter, s.handleLegacy))
	mux.HandleFunc("/api/v1/map", RateLimitMiddleware(s.limiter, s.handleMap))
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	if s.Cfg.Server.WebSocket {
		mux.HandleFunc("/api/v1/map/ws", s.handleWebSocket)
	}

	return corsMiddleware(s.origins, mux)
}

// Start begins serving the HTTP API in a goroutine. The caller shuts the
// returned server down.
func (s *Server) Start() *http.Server {
	addr := net.JoinHostPort(s.Cfg.Server.Host, strconv.Itoa(s.Cfg.Server.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr,
		"websocket", s.Cfg.Server.WebSocket,
		"stats", s.DB != nil,
		"rate_limit", s.Cfg.Server.RateLimit)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	return srv
}

// Close releases background resources.
func (s *Server) Close() {
	s.limiter.Stop()
}

func allowedOrigins(extra []string) map[string]bool {
	origins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	for _, origin := range extra {
		origins[origin] = true
	}
	return origins
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Localhost dev servers are always allowed.
func corsMiddleware(allowed map[string]bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
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

// checkOrigin admits same-origin clients, clients that send no Origin,
// and the CORS allow list.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || s.origins[origin] {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

// handleLegacy serves /?get=map&size=..&players=.. for existing clients.
func (s *Server) handleLegacy(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.URL.Query().Get("get") != "map" {
		w.Header().Set("Content-Type", "application/json")
		return
	}
	s.handleMap(w, r)
}

// handleMap answers one map request. Bad parameters produce an empty body.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	q := r.URL.Query()
	body, err := s.generate(q.Get("size"), q.Get("players"))
	if err != nil {
		slog.Debug("map request rejected", "query", r.URL.RawQuery, "error", err)
		return
	}
	w.Write(body)
}

// generate validates the request parameters, builds one map and returns
// its encoding.
func (s *Server) generate(size, players string) ([]byte, error) {
	dims, ok := s.Cfg.Generation.Sizes.Lookup(size)
	if !ok {
		return nil, fmt.Errorf("%w: size %q", errBadRequest, size)
	}
	n, err := strconv.Atoi(players)
	if err != nil || !mapgen.ValidPlayers(n) {
		return nil, fmt.Errorf("%w: players %q", errBadRequest, players)
	}

	seed, err := entropy.SeedFrom(s.Source)
	if err != nil {
		seed = entropy.RandomSeed()
		slog.Warn("entropy source failed, using local seed", "error", err)
	}
	grid, report, err := mapgen.Generate(s.Cfg.MapConfig(dims, n), entropy.NewSeeded(seed))
	if err != nil {
		return nil, fmt.Errorf("generate %s map: %w", size, err)
	}
	if err := mapgen.Audit(grid, n); err != nil {
		slog.Warn("generated map failed audit", "id", report.ID, "repair", report.Repair, "error", err)
	}

	body, err := wire.Marshal(grid, s.Cfg.CompressOutput())
	if err != nil {
		return nil, fmt.Errorf("encode map %s: %w", report.ID, err)
	}

	s.served.Add(1)
	slog.Info("map generated",
		"id", report.ID,
		"seed", seed,
		"size", size,
		"players", n,
		"seated", report.Seated,
		"holes", report.Holes,
		"pruned", report.Pruned,
		"repair", report.Repair,
		"bytes", humanize.Bytes(uint64(len(body))),
		"elapsed", report.Duration)

	if s.DB != nil {
		if err := s.DB.RecordGeneration(persistence.FromReport(size, report)); err != nil {
			slog.Warn("failed to record generation", "id", report.ID, "error", err)
		}
	}
	return body, nil
}

type wsRequest struct {
	Size    string      `json:"size"`
	Players json.Number `json:"players"`
}

// handleWebSocket answers each {"size","players"} message with an encoded
// map. Malformed or rate-limited messages get no reply.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ip := clientIP(r)
	conn.SetReadLimit(wsMaxMessageSize)
	slog.Debug("websocket client connected", "ip", ip)

	for {
		conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read failed", "ip", ip, "error", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			slog.Debug("malformed websocket request", "ip", ip, "error", err)
			continue
		}
		if !s.limiter.Allow(ip) {
			slog.Debug("websocket request rate limited", "ip", ip)
			continue
		}
		body, err := s.generate(req.Size, req.Players.String())
		if err != nil {
			slog.Debug("websocket map request rejected", "ip", ip, "error", err)
			continue
		}

		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
			slog.Debug("websocket write failed", "ip", ip, "error", err)
			return
		}
	}
}

type statsResponse struct {
	Summary       persistence.Summary      `json:"summary"`
	Recent        []persistence.Generation `json:"recent"`
	Served        int64                    `json:"served"`
	Started       string                   `json:"started"`
	UptimeSeconds int64                    `json:"uptime_seconds"`
}

// handleStats reports aggregate generation statistics. 404 when no
// database is configured.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.NotFound(w, r)
		return
	}

	limit := recentLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v >= 0 && v <= maxRecent {
			limit = v
		}
	}

	summary, err := s.DB.Summary()
	if err != nil {
		slog.Error("stats query failed", "error", err)
		http.Error(w, "stats unavailable", http.StatusInternalServerError)
		return
	}
	recent, err := s.DB.Recent(limit)
	if err != nil {
		slog.Error("recent generations query failed", "error", err)
	}
	if recent == nil {
		recent = []persistence.Generation{}
	}

	writeJSON(w, statsResponse{
		Summary:       summary,
		Recent:        recent,
		Served:        s.served.Load(),
		Started:       humanize.Time(s.started),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

// Package httpapi serves the session, remote API, and live log events over
// local HTTP, Server-Sent Events, and WebSocket.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/vallocal/vallocal-go/internal/eventbus"
	"github.com/vallocal/vallocal-go/internal/riotapi"
)

// DefaultKeepAlive is the interval between SSE keep-alive comments and
// WebSocket pings.
const DefaultKeepAlive = 15 * time.Second

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// EventSource hands out subscriptions to the live log stream.
type EventSource interface {
	Subscribe() *eventbus.Subscription
}

// Config holds server configuration.
type Config struct {
	// Addr is the listen address. Default: 127.0.0.1:9922.
	Addr string
	// KeepAlive is the streaming keep-alive interval. Default: 15s.
	KeepAlive time.Duration
}

// Server is the local HTTP front-end.
type Server struct {
	sessions  riotapi.Source
	api       *riotapi.Client
	events    EventSource
	logger    *slog.Logger
	keepAlive time.Duration
	server    *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithEvents enables the /log routes. Without it they answer 503.
func WithEvents(src EventSource) Option {
	return func(s *Server) {
		s.events = src
	}
}

// NewServer creates a server for the given session source and API client.
func NewServer(sessions riotapi.Source, api *riotapi.Client, cfg Config, opts ...Option) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:9922"
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = DefaultKeepAlive
	}

	s := &Server{
		sessions:  sessions,
		api:       api,
		keepAlive: cfg.KeepAlive,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = discardLogger
	}

	// No WriteTimeout: event streams stay open indefinitely.
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	return s
}

// Start listens on the configured address and serves until Stop.
// Returns nil after a graceful Stop.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln until Stop.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("http server listening", "addr", ln.Addr().String())
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the routed handler wrapped in middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /auth", s.handleAuth)
	mux.HandleFunc("GET /pregame/match", s.handlePregameMatch)
	mux.HandleFunc("GET /coregame/match", s.handleCoregameMatch)
	mux.HandleFunc("GET /coregame/loadouts", s.handleCoregameLoadouts)
	mux.HandleFunc("GET /pd/history", s.handleHistory)
	mux.HandleFunc("GET /pd/mmr/{puuid}", s.handleMMR)
	mux.HandleFunc("GET /pd/match/{matchID}", s.handleMatchDetails)
	mux.HandleFunc("POST /pd/names", s.handleNames)
	mux.HandleFunc("GET /pd/lookup/{name}/{tag}", s.handleLookup)
	mux.HandleFunc("GET /log/events", s.handleLogEvents)
	mux.HandleFunc("GET /log/ws", s.handleLogWS)

	return Recovery(s.logger, Logging(s.logger, CORS(mux)))
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response as JSON.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: status})
}

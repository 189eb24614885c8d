package http

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"showtime/internal/app"
	"showtime/internal/archive"
	"showtime/internal/config"
	"showtime/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server   *http.Server
	router   *httprouter.Router
	registry *app.RoomRegistry
	archive  archive.Repository // nil when the archive is disabled
	config   *config.Config
	logger   *slog.Logger
}

// NewServer creates a new HTTP server. repo may be nil.
func NewServer(cfg *config.Config, registry *app.RoomRegistry, repo archive.Repository, logger *slog.Logger) *Server {
	s := &Server{
		router:   httprouter.New(),
		registry: registry,
		archive:  repo,
		config:   cfg,
		logger:   logger,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.GetAddr(),
		Handler:           s.middleware(s.router),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	r := s.router

	// API routes
	r.POST("/api/rooms", s.handleCreateRoom)
	r.GET("/api/rooms/:roomCode", s.handleGetRoom)
	r.GET("/api/rooms/:roomCode/exists", s.handleRoomExists)
	r.GET("/api/rooms/:roomCode/qr", s.handleRoomQR)
	r.GET("/api/rooms/:roomCode/shows", s.handleRoomShows)
	r.GET("/api/shows/:showID", s.handleShow)
	r.GET("/api/health", s.handleHealth)
	r.GET("/api/stats", s.handleStats)

	// WebSocket
	r.Handler(http.MethodGet, "/ws", ws.NewHandler(ws.HandlerConfig{
		Registry:  s.registry,
		Logger:    s.logger,
		RateLimit: s.config.RateLimit.PerSecond,
		RateBurst: s.config.RateLimit.Burst,
	}))

	r.PanicHandler = func(w http.ResponseWriter, req *http.Request, v interface{}) {
		s.logger.Error("handler panic", "path", req.URL.Path, "panic", v)
		s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// Handler returns the full handler chain, for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// middleware wraps the handler with logging and other middleware
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Add CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		// Health probes are noisy outside development
		if s.config.IsDevelopment() || r.URL.Path != "/api/health" {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration", time.Since(start),
			)
		}
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for WebSocket support
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Flush implements http.Flusher
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

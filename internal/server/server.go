// Package server provides the HTTP API for the humanizer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
	"github.com/jonathan/humanizer/internal/db"
	"github.com/jonathan/humanizer/internal/humanizer"
	"github.com/jonathan/humanizer/internal/logger"
	"github.com/jonathan/humanizer/internal/server/middleware"
	"github.com/jonathan/humanizer/internal/server/ratelimit"
	"github.com/rs/zerolog"
)

// DefaultMaxBodyBytes caps JSON request bodies.
const DefaultMaxBodyBytes = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	service      *humanizer.Service
	store        db.Store
	rateLimiter  *ratelimit.Limiter
	maxBodyBytes int64
	shutdown     time.Duration
	log          *zerolog.Logger
}

// Config holds server configuration
type Config struct {
	Port            int
	CORSOrigins     []string          // defaults to "*"
	RateLimit       *ratelimit.Config // nil loads from the environment
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// New creates a new server instance. A nil store keeps results in memory.
func New(cfg Config, service *humanizer.Service, store db.Store) *Server {
	if store == nil {
		store = db.NewMemoryStore(db.DefaultMemoryCapacity)
	}
	rlConfig := cfg.RateLimit
	if rlConfig == nil {
		rlConfig = ratelimit.LoadConfig()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	shutdown := cfg.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = 30 * time.Second
	}

	s := &Server{
		service:      service,
		store:        store,
		rateLimiter:  ratelimit.NewLimiter(rlConfig),
		maxBodyBytes: maxBody,
		shutdown:     shutdown,
		log:          logger.Named("server"),
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.routes(cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      300 * time.Second, // generation calls can be slow and are retried
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(cfg Config) http.Handler {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.AccessLog(middleware.AccessLogOptions{Slow: 10 * time.Second}))
	r.Use(middleware.RecoverJSON)
	r.Use(chicors.Handler(chicors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Content-Disposition"},
		MaxAge:         300,
	}))
	r.Use(s.withRateLimit)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.jsonResponse(w, http.StatusNotFound, errorBody{Error: errorCode(http.StatusNotFound), Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		s.jsonResponse(w, http.StatusMethodNotAllowed, errorBody{Error: errorCode(http.StatusMethodNotAllowed), Message: "method not allowed"})
	})

	r.Get("/health", s.handleHealth)
	r.Post("/humanize", s.handleHumanize)
	r.Post("/generate", s.handleGenerate)
	r.Post("/score", s.handleScore)
	r.Route("/results", func(r chi.Router) {
		r.Get("/", s.handleListResults)
		r.Get("/{id}", s.handleGetResult)
		r.Get("/{id}/download", s.handleDownloadResult)
	})
	return r
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled, then drains in-flight requests for up to
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Str("model", s.service.Model()).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.rateLimiter.Stop()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()
	s.store.Close()
	s.log.Info().Msg("server stopped")
	return nil
}

// withRateLimit rejects requests over the client's limit with 429
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID identifies the caller by IP. RealIP has already applied
// X-Forwarded-For / X-Real-IP to RemoteAddr.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":   errorCode(http.StatusTooManyRequests),
		"message": "Rate limit exceeded. Please try again later.",
		"limit":   info.Limit,
	}
	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds() + 0.999)
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	logger.C(r.Context()).Warn().
		Str("client", clientID(r)).
		Str("path", r.URL.Path).
		Int("limit", info.Limit).
		Msg("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse maps err onto a status and writes the JSON error body
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	log := logger.C(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	s.jsonResponse(w, status, newErrorBody(status, err))
}

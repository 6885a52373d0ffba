// Package server provides the HTTP REST API for interview practice.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/server/middleware"
	"github.com/jonathan/interview-prep/internal/server/ratelimit"
	"github.com/jonathan/interview-prep/internal/session"
	"github.com/jonathan/interview-prep/internal/store"
	"golang.org/x/sync/errgroup"
)

// Watcher reports storage keys changed by another process.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       *store.Store
	session     *session.Session
	watcher     Watcher
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	now         func() time.Time
}

// Config holds server configuration
type Config struct {
	Port        int
	CORSOrigins []string
	RateLimit   float64
	RateBurst   int
	JWT         *config.JWTConfig // nil disables authentication
	Watcher     Watcher           // nil disables reloading on external changes
}

// New creates a new server instance
func New(st *store.Store, sess *session.Session, cfg Config) *Server {
	s := &Server{
		store:       st,
		session:     sess,
		watcher:     cfg.Watcher,
		rateLimiter: ratelimit.NewLimiter(ratelimit.NewConfig(cfg.RateLimit, cfg.RateBurst)),
		now:         time.Now,
	}
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(cfg.CORSOrigins),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) routes(origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "Retry-After"},
		MaxAge:         300,
	}))
	r.Use(s.withLogging, s.withRateLimit)

	r.Get("/health", s.handleHealth)
	r.Post("/score", s.handleScore)

	// Reads
	r.Get("/companies", s.handleListCompanies)
	r.Get("/companies/{id}/export", s.handleExportCompany)
	r.Get("/companies/{id}/export.xlsx", s.handleExportWorkbook)
	r.Get("/bank", s.handleGetBank)
	r.Get("/bank/questions", s.handleListQuestions)
	r.Get("/bank/groups", s.handleListGroups)
	r.Get("/bank/progress", s.handleGetProgress)
	r.Get("/taxonomy", s.handleGetTaxonomy)
	r.Get("/progress/random", s.handleRandomQuestion)
	r.Get("/recordings", s.handleListRecordings)
	r.Get("/recordings/export", s.handleExportRecordings)
	r.Get("/recordings/summary", s.handleRecordingSummary)
	r.Get("/recordings/{id}/audio", s.handleGetAudio)
	r.Get("/recordings/{id}/score", s.handleScoreRecording)

	// Writes require a bearer token when JWT is configured
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.Optional(s.jwtService != nil, s.authMiddleware()))

		pr.Post("/companies", s.handleCreateCompany)
		pr.Post("/companies/import", s.handleImportCompany)
		pr.Put("/companies/{id}", s.handleRenameCompany)
		pr.Delete("/companies/{id}", s.handleDeleteCompany)
		pr.Post("/companies/{id}/select", s.handleSelectCompany)

		pr.Post("/categories", s.handleCreateCategory)
		pr.Put("/categories/{name}", s.handleRenameCategory)
		pr.Delete("/categories/{name}", s.handleDeleteCategory)

		pr.Route("/taxonomy/main", func(tr chi.Router) {
			tr.Post("/", s.handleCreateMainCategory)
			tr.Put("/{name}", s.handleRenameMainCategory)
			tr.Delete("/{name}", s.handleDeleteMainCategory)
			tr.Post("/{name}/sub", s.handleCreateSubCategory)
			tr.Put("/{name}/sub/{sub}", s.handleRenameSubCategory)
			tr.Delete("/{name}/sub/{sub}", s.handleDeleteSubCategory)
		})

		pr.Post("/questions", s.handleCreateQuestion)
		pr.Put("/questions/{id}", s.handleUpdateQuestion)
		pr.Delete("/questions/{id}", s.handleDeleteQuestion)
		pr.Post("/questions/{id}/followup", s.handleToggleFollowup)
		pr.Put("/questions/{id}/keywords", s.handleUpdateKeywords)
		pr.Post("/questions/{id}/move", s.handleMoveQuestion)

		pr.Post("/progress/reset", s.handleResetProgress)
		pr.Post("/progress/{id}/{flag}", s.handleToggleFlag)

		pr.Post("/recordings/{id}/start", s.handleStartRecording)
		pr.Post("/recordings/{id}/audio", s.handleAppendAudio)
		pr.Post("/recordings/{id}/transcript", s.handleTranscript)
		pr.Post("/recordings/{id}/stop", s.handleStopRecording)
		pr.Post("/recordings/{id}/cancel", s.handleCancelRecording)
		pr.Delete("/recordings/{id}", s.handleDeleteRecording)
	})

	return r
}

func (s *Server) authMiddleware() func(http.Handler) http.Handler {
	if s.jwtService == nil {
		return nil
	}
	return middleware.AuthMiddleware(s.jwtService)
}

// Start serves until ctx is cancelled, then shuts down gracefully. When a watcher is
// configured, external changes to storage reload the store.
func (s *Server) Start(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("[server] shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		log.Println("[server] stopped")
		return nil
	})

	if s.watcher != nil {
		g.Go(func() error {
			return s.watchStore(ctx)
		})
	}

	return g.Wait()
}

// watchStore reloads the store whenever the watcher reports an external change.
func (s *Server) watchStore(ctx context.Context) error {
	changes, err := s.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch store: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case key, ok := <-changes:
			if !ok {
				return nil
			}
			if err := s.store.Reload(ctx); err != nil {
				log.Printf("[watch] reload after change to %s failed: %v", key, err)
				continue
			}
			log.Printf("[watch] reloaded after external change to %s", key)
		}
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractClientID extracts the client identifier (IP address) from the request.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	retryAfter := int(info.RetryAfter.Seconds() + 0.999)
	if retryAfter > 0 {
		response["retry_after"] = retryAfter
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail writes err with the status HTTPStatus assigns to it. Internal errors are logged
// and reported without detail.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[server] internal error: %v", err)
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

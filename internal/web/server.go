// Package web provides the HTTP server and JSON handlers for the event
// calendar's submission and moderation API.
package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aquaevents/eventcal/internal/config"
	"github.com/aquaevents/eventcal/internal/importer"
	"github.com/aquaevents/eventcal/internal/logging"
	"github.com/aquaevents/eventcal/internal/metrics"
	"github.com/aquaevents/eventcal/internal/submission"
	"github.com/aquaevents/eventcal/internal/web/middleware"
)

// Server is the HTTP server for the submission and import API.
type Server struct {
	cfg         *config.Config
	submissions *submission.Service
	importer    *importer.Service
	router      *chi.Mux
	server      *http.Server
	stopFns     []func()
}

// NewServer wires the router, middleware, and routes.
func NewServer(cfg *config.Config, submissions *submission.Service, imp *importer.Service) *Server {
	s := &Server{
		cfg:         cfg,
		submissions: submissions,
		importer:    imp,
		router:      chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(chimw.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.stopFns = append(s.stopFns, limiter.stop)
		s.router.Use(limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Public API: submission intake and own-submission management.
	s.router.Route("/api/submissions", func(r chi.Router) {
		r.Use(middleware.Identity)

		if s.cfg.Rate.Enabled {
			submitLimiter := newRateLimiter(s.cfg.Rate.SubmitLimit, time.Minute)
			s.stopFns = append(s.stopFns, submitLimiter.stop)
			r.With(submitLimiter.middleware).Post("/", s.handleSubmit)
		} else {
			r.Post("/", s.handleSubmit)
		}
		r.Get("/mine", s.handleMySubmissions)
		r.Delete("/mine/{id}", s.handleDeleteOwn)
	})

	// Privileged API: moderation, bulk import, event removal.
	s.router.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(&s.cfg.Security))

		r.Get("/submissions", s.handleListSubmissions)
		r.Get("/submissions/pending", s.handleListPending)
		r.Post("/submissions/bulk", s.handleBulkModerate)
		r.Get("/submissions/{id}", s.handleGetSubmission)
		r.Post("/submissions/{id}/approve", s.handleApprove)
		r.Post("/submissions/{id}/reject", s.handleReject)
		r.Post("/submissions/{id}/publish", s.handlePublish)
		r.Delete("/submissions/{id}", s.handleDeleteSubmission)

		r.Get("/import/template", s.handleImportTemplate)
		r.Get("/import/template.csv", s.handleImportTemplateCSV)
		r.Post("/import", s.handleImport)

		r.Delete("/events/{id}", s.handleDeleteEvent)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	logging.FromContext(context.Background()).Info("server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and its background cleanups.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, stop := range s.stopFns {
		stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// securityHeaders adds hardening headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// rateLimiter implements a simple token bucket rate limiter per IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // requests per window
	window   time.Duration // time window
	done     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// newRateLimiter creates a rate limiter with the specified rate per window.
func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
		done:     make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// stop terminates the cleanup goroutine. Safe to call more than once.
func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// cleanup removes stale visitor entries every minute until stopped.
func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastReset) > rl.window*2 {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// allow checks if the request should be allowed and consumes a token if so.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		rl.visitors[ip] = &visitor{
			tokens:    rl.rate - 1,
			lastReset: time.Now(),
		}
		return true
	}

	if time.Since(v.lastReset) > rl.window {
		v.tokens = rl.rate - 1
		v.lastReset = time.Now()
		return true
	}

	if v.tokens <= 0 {
		return false
	}

	v.tokens--
	return true
}

// middleware returns an HTTP middleware that rate limits by IP.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
			ip = realIP
		}

		if !rl.allow(ip) {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
				Error: "rate limit exceeded",
				Code:  "RATE_LIMITED",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

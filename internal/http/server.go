// Package http exposes the ledger as a JSON API: auth, week documents,
// roster, settings and notifications.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"cashout/internal/auth"
	"cashout/internal/log"
	"cashout/internal/notify"
	"cashout/internal/services"
)

type Server struct {
	http.Server
	auth         *auth.Service
	ledger       *services.LedgerService
	hub          *notify.Hub
	ready        func(ctx context.Context) error
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware and returns a ready-to-run server.
// ready is the readiness probe hook (typically a store ping); nil means
// always ready.
func NewServer(addr string, authSvc *auth.Service, ledger *services.LedgerService, hub *notify.Hub, logger *log.Logger, ready func(ctx context.Context) error) *Server {
	mux := http.NewServeMux()

	s := &Server{
		auth:        authSvc,
		ledger:      ledger,
		hub:         hub,
		ready:       ready,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.Handle("GET /api/weeks", s.requireSession(s.handleListWeeks))
	mux.Handle("GET /api/weeks/{weekID}", s.requireSession(s.handleGetWeek))
	mux.Handle("PUT /api/weeks/{weekID}", s.requireSession(s.handleSaveWeek))
	mux.Handle("GET /api/roster", s.requireSession(s.handleGetRoster))
	mux.Handle("PUT /api/roster", s.requireSession(s.handleSaveRoster))
	mux.Handle("GET /api/config", s.requireSession(s.handleGetConfig))
	mux.Handle("PUT /api/config", s.requireSession(s.handleSaveConfig))
	mux.Handle("GET /api/notifications", s.requireSession(s.handleNotifications))
	mux.Handle("DELETE /api/notifications/{id}", s.requireSession(s.handleDismissNotification))

	handler := log.Middleware(logger)(log.RequestLogger(logger)(s.withSecurityHeaders(mux)))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Shutdown stops the rate limiter's cleanup goroutine along with the HTTP
// server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers and rate limits mutating
// requests.
func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			if !s.rateLimiter.allow(clientIP(r)) {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

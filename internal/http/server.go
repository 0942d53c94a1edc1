package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/raj-kalepu/SpendWise/internal/cache"
	applog "github.com/raj-kalepu/SpendWise/internal/log"
	"github.com/raj-kalepu/SpendWise/internal/services"
	"github.com/raj-kalepu/SpendWise/internal/store"
)

const (
	summaryCacheSize = 16
	cacheCleanupTick = 10 * time.Minute
)

type Server struct {
	http.Server
	ledger      *services.LedgerService
	snap        *store.Store
	logger      *applog.Logger
	rateLimiter *rateLimiter

	// Cached dashboard views, purged on every mutation.
	summaryCache *cache.LRUCache[services.SummaryView]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures routes and caches, returning a ready-to-run http.Server.
func NewServer(addr string, ledger *services.LedgerService, summaryTTL time.Duration) *Server {
	mux := http.NewServeMux()

	if summaryTTL <= 0 {
		summaryTTL = 30 * time.Second
	}

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:           ledger,
		snap:             ledger.Store(),
		logger:           applog.New(applog.Config{Component: applog.ComponentHTTP, Handler: slog.Default().Handler()}),
		rateLimiter:      newRateLimiter(),
		summaryCache:     cache.NewLRUCache[services.SummaryView](summaryCacheSize, summaryTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/summary", s.withDefaults(s.handleSummary))
	mux.HandleFunc("GET /api/alerts", s.withDefaults(s.handleAlerts))

	mux.HandleFunc("GET /api/transactions", s.withDefaults(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withDefaults(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withDefaults(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withDefaults(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/budgets", s.withDefaults(s.handleListBudgets))
	mux.HandleFunc("POST /api/budgets", s.withDefaults(s.handleCreateBudget))
	mux.HandleFunc("PUT /api/budgets/{id}", s.withDefaults(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.withDefaults(s.handleDeleteBudget))

	mux.HandleFunc("GET /api/loans", s.withDefaults(s.handleListLoans))
	mux.HandleFunc("POST /api/loans", s.withDefaults(s.handleCreateLoan))
	mux.HandleFunc("PUT /api/loans/{id}", s.withDefaults(s.handleUpdateLoan))
	mux.HandleFunc("DELETE /api/loans/{id}", s.withDefaults(s.handleDeleteLoan))
	mux.HandleFunc("POST /api/loans/{id}/toggle", s.withDefaults(s.handleToggleLoan))

	mux.HandleFunc("GET /api/profile", s.withDefaults(s.handleGetProfile))
	mux.HandleFunc("PUT /api/profile", s.withDefaults(s.handleSaveProfile))

	mux.HandleFunc("GET /api/export", s.withDefaults(s.handleExport))

	return s
}

// startCacheCleanup runs periodic cleanup for the summary cache
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(cacheCleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.summaryCache.CleanExpired(); cleaned > 0 {
				s.logger.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withDefaults adds security headers, rate limiting and request logging. A
// request-scoped logger carrying the request id is placed in the context for
// handlers to pick up with applog.FromContext.
func (s *Server) withDefaults(next http.HandlerFunc) http.HandlerFunc {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := clientIPFor(r)

		ctx := r.Context()
		reqLog := applog.FromContext(ctx).With(applog.FieldClientIP, clientIP)

		reqLog.InfoContext(ctx, "Request started",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldQuery, r.URL.RawQuery)

		// Rate limit mutations only; dashboard reads are cheap.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			reqLog.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		reqLog.InfoContext(ctx, "Request completed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldSuccess, rw.statusCode < http.StatusBadRequest,
			applog.FieldDuration, time.Since(start).Milliseconds())
	})

	wrapped := applog.Middleware(s.logger)(applog.RequestIDMiddleware(func(*http.Request) string {
		return generateRequestID()
	})(inner))
	return wrapped.ServeHTTP
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready once the snapshot store has loaded at least once.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.snap.RefreshedAt().IsZero() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

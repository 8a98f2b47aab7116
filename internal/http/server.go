// Package http exposes the JSON API. Handlers stay thin: decode, call a
// service, encode. All business rules live in the services layer.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"finanzo/internal/auth"
	"finanzo/internal/cache"
	"finanzo/internal/core"
	"finanzo/internal/middleware/ratelimit"
	"finanzo/internal/middleware/security"
	"finanzo/internal/middleware/trace"
	"finanzo/internal/services"
	"finanzo/internal/storage"
)

type Server struct {
	httpServer   *http.Server
	auth         *auth.Service
	transactions *services.TransactionService
	goals        *services.GoalService
	challenges   *services.ChallengeService
	storage      *storage.SQLiteRepository
	limiter      *ratelimit.Limiter
	recordCache  *cache.LRUCache[[]core.Record]
	cacheManager *cache.Manager
	logger       *slog.Logger
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(
	addr string,
	authSvc *auth.Service,
	transactions *services.TransactionService,
	goals *services.GoalService,
	challenges *services.ChallengeService,
	store *storage.SQLiteRepository,
	logger *slog.Logger,
) *Server {
	s := &Server{
		auth:         authSvc,
		transactions: transactions,
		goals:        goals,
		challenges:   challenges,
		storage:      store,
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		recordCache:  cache.NewLRUCache[[]core.Record](256, 30*time.Second),
		cacheManager: cache.NewManager(),
		logger:       logger,
	}
	s.cacheManager.Register(s.recordCache)
	s.cacheManager.StartCleanup(time.Minute)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.Handle("POST /api/transactions", s.withAuth(s.handleCreateTransactions))
	mux.Handle("GET /api/transactions", s.withAuth(s.handleListTransactions))
	mux.Handle("DELETE /api/transactions/{id}", s.withAuth(s.handleDeleteTransaction))

	mux.Handle("POST /api/goals", s.withAuth(s.handleCreateGoal))
	mux.Handle("GET /api/goals", s.withAuth(s.handleListGoals))
	mux.Handle("GET /api/goals/{id}", s.withAuth(s.handleGetGoal))
	mux.Handle("PATCH /api/goals/{id}", s.withAuth(s.handleUpdateGoal))
	mux.Handle("DELETE /api/goals/{id}", s.withAuth(s.handleDeleteGoal))
	mux.Handle("POST /api/goals/contribute", s.withAuth(s.handleContribute))

	mux.Handle("GET /api/challenge", s.withAuth(s.handleCurrentChallenge))
	mux.Handle("POST /api/challenge/accept", s.withAuth(s.handleAcceptChallenge))

	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.Handle("GET /api/achievements", s.withAuth(s.handleAchievements))

	tracer := trace.NewMiddleware(trace.ClientIP)
	headers := security.NewHeadersMiddleware(security.APIHeadersConfig())
	handler := tracer.Middleware(headers.Middleware(s.withRateLimit(mux)))

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	s.cacheManager.Stop()
	return s.httpServer.Shutdown(ctx)
}

// withRateLimit throttles mutating requests per client IP. Reads are
// never limited.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && !s.limiter.Allow(trace.ClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withAuth resolves the Bearer token and stores the user id in the
// request context. Handlers behind it can assume an authenticated user.
func (s *Server) withAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.FromBearerHeader(r.Header.Get("Authorization"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		userID, err := s.auth.ParseToken(token)
		if err != nil {
			respondError(w, r, err)
			return
		}
		next(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.Ping(r.Context()); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "storage not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

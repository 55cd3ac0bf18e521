package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tmori/wishnote/internal/handler"
	"github.com/tmori/wishnote/internal/middleware"
	"github.com/tmori/wishnote/internal/push"
	"github.com/tmori/wishnote/internal/store"
)

// Config holds what the API server needs beyond the database handle.
type Config struct {
	APIToken string
	Push     push.Config
}

type Server struct {
	db          *sql.DB
	pushH       *handler.PushHandler
	rateLimiter *middleware.RateLimiter
	apiToken    string
	logger      *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	pushStore := store.NewPushStore(db)
	pushSvc := push.NewService(cfg.Push)

	return &Server{
		db:          db,
		pushH:       handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler")),
		rateLimiter: middleware.NewRateLimiter(),
		apiToken:    cfg.APIToken,
		logger:      logger,
	}
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)

	// Service-authenticated routes
	apiMux := http.NewServeMux()
	apiMux.Handle("POST /api/push/subscribe", s.rateLimited(s.pushH.Subscribe))
	apiMux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
	apiMux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
	apiMux.HandleFunc("GET /api/notifications/preferences", s.pushH.GetPreferences)
	apiMux.HandleFunc("PUT /api/notifications/preferences", s.pushH.UpdatePreferences)
	apiMux.Handle("POST /api/push/test", s.rateLimited(s.pushH.TestNotification))

	authMiddleware := middleware.RequireServiceAuth(s.apiToken)
	outerMux.Handle("/api/", authMiddleware(apiMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.Handler {
	keyFunc := func(r *http.Request) string {
		return r.Header.Get("X-User-ID")
	}
	return middleware.RateLimit(s.rateLimiter, keyFunc, 30, time.Minute)(h)
}

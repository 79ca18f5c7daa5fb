package router

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/shivraj110504/RuralCare/internal/http/middleware"
	"github.com/shivraj110504/RuralCare/internal/webchat"
	"github.com/shivraj110504/RuralCare/pkg/logging"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Chat               *webchat.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	SupabaseJWTSecret  string
	RateLimiter        *httpmiddleware.RateLimiter
	HealthChecks       map[string]HealthCheck
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthHandler(cfg.HealthChecks))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.Chat == nil {
		return r
	}

	r.Route("/chat", func(chat chi.Router) {
		chat.Use(httpmiddleware.SupabaseAuth(cfg.SupabaseJWTSecret))

		chat.Get("/ws", cfg.Chat.HandleWebSocket)
		chat.Get("/quick-replies", cfg.Chat.HandleQuickReplies)

		chat.Route("/sessions", func(sessions chi.Router) {
			sessions.Use(middleware.Compress(5))
			sessions.Post("/", cfg.Chat.HandleOpen)
			sessions.Route("/{id}", func(s chi.Router) {
				s.Delete("/", cfg.Chat.HandleClose)
				s.Get("/messages", cfg.Chat.HandleHistory)
				s.With(httpmiddleware.RateLimit(cfg.RateLimiter)).Post("/messages", cfg.Chat.HandleMessage)
				s.With(httpmiddleware.RateLimit(cfg.RateLimiter)).Post("/quick-replies", cfg.Chat.HandleQuickReply)
				s.Post("/cart", cfg.Chat.HandleAddToCart)
			})
		})
	})

	return r
}

// healthHandler runs every check with a short deadline. Any failure turns
// the response into a 503 naming the failed dependency.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := map[string]string{"status": "ok"}
		status := http.StatusOK
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				resp[name] = err.Error()
				resp["status"] = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

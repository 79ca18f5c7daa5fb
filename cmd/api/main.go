package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shivraj110504/RuralCare/internal/api/router"
	"github.com/shivraj110504/RuralCare/internal/app/bootstrap"
	appconfig "github.com/shivraj110504/RuralCare/internal/config"
	"github.com/shivraj110504/RuralCare/internal/conversation"
	httpmiddleware "github.com/shivraj110504/RuralCare/internal/http/middleware"
	"github.com/shivraj110504/RuralCare/internal/observability/metrics"
	"github.com/shivraj110504/RuralCare/internal/webchat"
	"github.com/shivraj110504/RuralCare/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting RuralCare chat API",
		"env", cfg.Env,
		"port", cfg.Port,
		"llm_provider", cfg.LLMProvider,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsHandler, chatMetrics := setupMetrics()

	rt, err := bootstrap.BuildChatRuntime(ctx, cfg, chatMetrics, logger)
	if err != nil {
		logger.Error("failed to build chat runtime", "error", err)
		os.Exit(1)
	}
	defer rt.Close()

	manager := conversation.NewManager(rt.Deps)
	limiter := httpmiddleware.NewRateLimiter(cfg.ChatRatePerSecond, cfg.ChatRateBurst)
	go limiter.Run(ctx)
	go runJanitor(ctx, manager, cfg.SessionIdleTimeout, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Chat:               webchat.NewHandler(manager, conversation.DefaultQuickReplies, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SupabaseJWTSecret:  cfg.SupabaseJWTSecret,
		RateLimiter:        limiter,
		HealthChecks:       healthChecks(rt),
	})
	if cfg.SupabaseJWTSecret == "" {
		logger.Warn("SUPABASE_JWT_SECRET not set; every chat session is anonymous")
	}

	srv := newServer(cfg.Port, r)

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func setupMetrics() (http.Handler, *metrics.ChatMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewChatMetrics(reg)
}

func newServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// No WriteTimeout: websocket connections inherit it after hijack.
		IdleTimeout: 60 * time.Second,
	}
}

func healthChecks(rt *bootstrap.ChatRuntime) map[string]router.HealthCheck {
	checks := map[string]router.HealthCheck{}
	if rt != nil && rt.Redis != nil {
		client := rt.Redis
		checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}
	return checks
}

// runJanitor drops idle chat sessions until ctx is cancelled.
func runJanitor(ctx context.Context, manager *conversation.Manager, idle time.Duration, logger *logging.Logger) {
	if idle <= 0 {
		return
	}
	interval := idle / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := manager.CloseIdle(idle); n > 0 {
				logger.Debug("janitor pass", "closed", n, "open", manager.Len())
			}
		}
	}
}

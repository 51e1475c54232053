package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"resale-dashboard/internal/config"
	"resale-dashboard/internal/handlers"
	"resale-dashboard/internal/middleware"
	"resale-dashboard/internal/observability"
	"resale-dashboard/internal/server"
	"resale-dashboard/internal/services"
	"resale-dashboard/internal/store"
	"resale-dashboard/internal/ui/templates"

	"github.com/a-h/templ"
)

const (
	renderTimeout  = 10 * time.Second
	migrateTimeout = 30 * time.Second
)

func pageHandler(page func() templ.Component) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page().Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"addr", cfg.Address(),
		"db_driver", cfg.Database.Driver,
	)

	st, err := store.Open(cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	if err := st.Migrate(ctx); err != nil {
		logger.Error("failed to migrate store", "error", err)
		os.Exit(1)
	}

	importer := services.NewImporter(st, logger)
	generator := services.NewGenerator(cfg.AI, logger)
	dashboard := services.NewDashboard(st, logger)

	apiHandlers := handlers.NewAPIHandlers(st, importer, generator, logger, cfg.Upload.MaxBytes)
	sseHandlers := handlers.NewSSEHandlers(st, dashboard, logger)

	templateHandlers := &server.TemplateHandlers{
		Dashboard: pageHandler(templates.Dashboard),
		Items:     pageHandler(templates.Items),
		Analysis:  pageHandler(templates.Analysis),
		AIAgent:   pageHandler(templates.AIAgent),
		AIModel:   pageHandler(templates.AIModel),
	}

	srv := server.NewServer(apiHandlers, sseHandlers, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middlewareChain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("closing store")
		return st.Close()
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}

// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/screentime/internal/api"
	"github.com/starford/screentime/internal/mcpserver"
	"github.com/starford/screentime/internal/sse"
	"github.com/starford/screentime/internal/store"
	"github.com/starford/screentime/internal/timeservice"
)

// NewLogger returns the structured JSON logger used across the application.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

func newApplication(opts []Option) (*application, error) {
	app := &application{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// NewRouter builds the HTTP handler: health checks plus the API under /api.
// broker may be nil when live events are disabled.
func NewRouter(cfg *Config, svc *timeservice.Service, broker *sse.Broker) http.Handler {
	var events http.Handler
	if broker != nil {
		events = broker
	}
	apiRouter := api.NewRouter(svc, cfg.Auth.Mode, cfg.Auth.Secret(), events)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)
	return r
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := NewLogger(app.logOutput, cfg.App.LogLevel)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("db_driver", cfg.Database.Driver),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.Bool("events_enabled", cfg.Events.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	st, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer st.Close()

	var (
		broker *sse.Broker
		svc    *timeservice.Service
	)
	if cfg.Events.Enabled {
		broker = sse.NewBroker()
		defer broker.Close()
		svc = timeservice.NewService(st, timeservice.WithNotifier(broker), timeservice.WithLogger(logger))
		// Seed the broker so the first subscriber gets the current value.
		svc.Refresh(ctx)
	} else {
		svc = timeservice.NewService(st, timeservice.WithLogger(logger))
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           NewRouter(cfg, svc, broker),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Writes from other processes (the CLI) reach SSE clients through the watcher.
	if broker != nil {
		g.Go(func() error {
			if err := st.Watch(gCtx, logger, func() { svc.Refresh(gCtx) }); err != nil {
				logger.Warn("database watcher unavailable", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// The watcher shares gCtx; a signal alone does not cancel it.
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools over stdio until stdin closes.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	cfg := app.config

	logger := NewLogger(app.logOutput, cfg.App.LogLevel)
	slog.SetDefault(logger)

	st, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer st.Close()

	logger.Info("MCP server starting", slog.String("db_driver", cfg.Database.Driver))
	svc := timeservice.NewService(st, timeservice.WithLogger(logger))
	return mcpserver.New(svc).ServeStdio()
}

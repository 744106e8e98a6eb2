package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/asad/clutchboard/internal/adapters/directory"
	"github.com/asad/clutchboard/internal/adapters/feed"
	"github.com/asad/clutchboard/internal/adapters/http/api"
	"github.com/asad/clutchboard/internal/adapters/index"
	"github.com/asad/clutchboard/internal/app"
	"github.com/asad/clutchboard/internal/config"
	"github.com/asad/clutchboard/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 45 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	gameIndex, err := index.Load(cfg.IndexPath)
	if err != nil {
		log.Error(ctx, "failed to load game index",
			logger.String("path", cfg.IndexPath), logger.Error(err))
		return
	}
	log.Info(ctx, "game index loaded",
		logger.String("path", cfg.IndexPath), logger.Int("games", gameIndex.Len()))

	feedClient := feed.NewClient(
		feed.WithBaseURL(cfg.FeedBaseURL),
		feed.WithRateLimit(cfg.FeedRateLimit, cfg.FeedBurst),
	)
	directoryClient := directory.NewClient(
		directory.WithBaseURL(cfg.DirectoryBaseURL),
		directory.WithAPIKey(cfg.DirectoryAPIKey),
	)

	svc := app.New(feedClient, gameIndex,
		app.WithLogger(log),
		app.WithDirectory(directoryClient),
		app.WithWorkers(cfg.WorkerCount),
		app.WithTaskTimeout(time.Duration(cfg.TaskTimeoutMS)*time.Millisecond),
	)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

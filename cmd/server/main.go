package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"c4dsl/internal/config"
	"c4dsl/internal/handler"
	"c4dsl/internal/hub"
	"c4dsl/internal/jobs"
	"c4dsl/internal/logger"
	"c4dsl/internal/metrics"
	"c4dsl/internal/repository"
	"c4dsl/internal/repository/sqlite"
	"c4dsl/internal/service"
	"c4dsl/internal/watcher"
)

// pruneInterval is how often expired runs are deleted when retention is set
const pruneInterval = time.Hour

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "c4dsl server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Config file path (default: search standard locations)")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	logFormat := flag.String("log-format", "", "Log format: json, console (overrides config)")
	noHistory := flag.Bool("no-history", false, "Disable the run history database")
	watchDir := flag.String("watch", "", "Directory or file of DSL sources to re-validate on change")
	flag.Parse()

	cfg, loadedFrom, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *noHistory {
		cfg.Database.Path = ""
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)
	sugar := log.Sugar().Named(logger.ComponentServer)

	sugar.Infow("Starting c4dsl server", "config", loadedFrom, "summary", cfg.Summary())

	var repo repository.Repository
	if cfg.Database.Path != "" {
		db, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		repo = db
		sugar.Infow("Database opened", "path", cfg.Database.Path)
	} else {
		sugar.Info("Run history disabled")
	}

	reg := metrics.NewRegistry()
	eventBus := service.NewEventBus()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Connect event bus to SSE hub
	sseHub := hub.New()
	sseHub.OnClientCount(func(n int) { reg.SSEClients.Set(float64(n)) })
	go sseHub.Run(ctx)

	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go hub.Forward(ctx, sseHub, eventChan)

	svc := service.NewWorkspaceService(repo, eventBus, reg, service.Options{
		BestPractices:  cfg.Validation.BestPracticesEnabled(),
		MaxSourceBytes: cfg.Validation.MaxSourceBytes,
	})

	scheduler := jobs.NewRegistry()
	if retention := cfg.Database.Retention.Duration(); retention > 0 && repo != nil {
		err := scheduler.Register("prune-runs", func(ctx context.Context) error {
			_, err := svc.PruneRuns(ctx, retention)
			return err
		}, jobs.Config{Enabled: true, Interval: pruneInterval})
		if err != nil {
			return err
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if *watchDir != "" {
		w := watcher.New([]string{*watchDir}, watchHandler(ctx, svc, eventBus, cfg.Validation.MaxSourceBytes)).
			WithDebounce(cfg.Watch.Debounce.Duration())
		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				sugar.Errorw("Watcher stopped", "error", err)
			}
		}()
	}

	mux := http.NewServeMux()
	handler.NewWorkspaceHandler(svc).Register(mux)
	mux.Handle("GET /events", sseHub)
	mux.Handle("GET /metrics", reg.Handler())

	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Metrics(reg),
		handler.Logger,
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      finalHandler,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("Server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	sugar.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("Server shutdown error", "error", err)
	}

	sugar.Info("Server stopped")
	return nil
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"c4dsl/internal/config"
	"c4dsl/internal/logger"
	"c4dsl/internal/mcpserver"
	"c4dsl/internal/repository"
	"c4dsl/internal/repository/sqlite"
	"c4dsl/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "c4dsl-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Config file path (default: search standard locations)")
	history := flag.Bool("history", false, "Record validation runs in the configured database")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, _, err = config.LoadFromPath(*configPath)
	} else {
		cfg, _, err = config.Load()
	}
	if err != nil {
		return err
	}

	// stdout carries the protocol, so logs always go to stderr
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	var repo repository.Repository
	if *history && cfg.Database.Path != "" {
		db, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		repo = db
	}

	svc := service.NewWorkspaceService(repo, nil, nil, service.Options{
		BestPractices:  cfg.Validation.BestPracticesEnabled(),
		MaxSourceBytes: cfg.Validation.MaxSourceBytes,
	})

	log.Named(logger.ComponentMCP).Info("Serving MCP over stdio",
		zap.String("name", mcpserver.Name), zap.Bool("history", repo != nil))
	return mcpserver.Serve(mcpserver.New(svc))
}

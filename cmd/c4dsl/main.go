package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"c4dsl/internal/cli"
	"c4dsl/internal/config"
	"c4dsl/internal/logger"
	"c4dsl/internal/service"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, _, err := config.Load()
	if err != nil {
		return &cli.ExitError{Code: cli.ExitUsage, Message: err.Error()}
	}

	// The CLI reports through stdout; logs stay quiet unless asked for
	level := os.Getenv("C4DSL_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	log, err := logger.NewWithWriter(level, string(logger.FormatConsole), stderr)
	if err != nil {
		return &cli.ExitError{Code: cli.ExitUsage, Message: err.Error()}
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc := service.NewWorkspaceService(nil, nil, nil, service.Options{
		BestPractices:  cfg.Validation.BestPracticesEnabled(),
		MaxSourceBytes: cfg.Validation.MaxSourceBytes,
	})

	return cli.New(svc, stdout, stderr).Run(ctx, args)
}

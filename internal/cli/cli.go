// Package cli implements the c4dsl command line: validate, format,
// analyze, convert, and watch subcommands over DSL files.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"c4dsl/internal/service"
)

// ExitError is an error that carries a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Exit codes
const (
	ExitInvalid = 1
	ExitUsage   = 2
)

func usageError(format string, args ...interface{}) error {
	return &ExitError{Code: ExitUsage, Message: fmt.Sprintf(format, args...)}
}

const usage = `
c4dsl - validate, format, and analyze Structurizr C4 DSL workspaces.

Usage:
  c4dsl <command> [options] PATH...

Commands:
  validate [-json] PATH...      Check identifier references in each file
  format [-w] PATH              Print (or rewrite) the canonical form
  analyze [-json] PATH          Print model statistics and suggestions
  convert -to FORMAT PATH       Convert between dsl, json, and yaml
  watch PATH...                 Re-validate files whenever they change
  init [-path FILE] [-force]    Write a config file with the defaults
`

// App runs subcommands against a workspace service
type App struct {
	svc    *service.WorkspaceService
	stdout io.Writer
	stderr io.Writer
}

// New creates an App writing results to stdout and diagnostics to stderr
func New(svc *service.WorkspaceService, stdout, stderr io.Writer) *App {
	return &App{svc: svc, stdout: stdout, stderr: stderr}
}

// Run dispatches args[0] to a subcommand
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.stderr, usage)
		return &ExitError{Code: ExitUsage, Message: "no command given"}
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "validate":
		return a.validate(ctx, rest)
	case "format", "fmt":
		return a.format(ctx, rest)
	case "analyze":
		return a.analyze(ctx, rest)
	case "convert":
		return a.convert(ctx, rest)
	case "watch":
		return a.watch(ctx, rest)
	case "init":
		return a.initConfig(ctx, rest)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(a.stdout, usage)
		return nil
	default:
		fmt.Fprint(a.stderr, usage)
		return usageError("unknown command %q", cmd)
	}
}

// parseFlags parses a subcommand's flags. A nil error with ok false means
// help was printed.
func (a *App) parseFlags(fs *flag.FlagSet, args []string) (ok bool, err error) {
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return false, nil
		}
		return false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return true, nil
}

func singlePath(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", usageError("%s: expected exactly one path, got %d", fs.Name(), fs.NArg())
	}
	return fs.Arg(0), nil
}

func joinFormats(formats []string) string {
	return strings.Join(formats, ", ")
}

package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"c4dsl/internal/domain"
	"c4dsl/internal/loader"
	"c4dsl/internal/report"
)

// FileResult is the validation result of one file
type FileResult struct {
	Path   string                  `json:"path"`
	Result domain.ValidationResult `json:"result"`
}

func (a *App) validate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print results as JSON")
	if ok, err := a.parseFlags(fs, args); !ok {
		return err
	}
	if fs.NArg() == 0 {
		return usageError("validate: at least one path is required")
	}

	results, err := a.validatePaths(ctx, fs.Args())
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			fmt.Fprint(a.stdout, report.ValidationTerminal(r.Path, r.Result))
		}
	}

	invalid := 0
	for _, r := range results {
		if !r.Result.IsValid {
			invalid++
		}
	}
	if invalid > 0 {
		return &ExitError{Code: ExitInvalid, Message: fmt.Sprintf("%d of %d file(s) invalid", invalid, len(results))}
	}
	return nil
}

// validatePaths checks every file under paths concurrently. Results keep
// the order of the expanded path list.
func (a *App) validatePaths(ctx context.Context, paths []string) ([]FileResult, error) {
	files, err := loader.Expand(paths)
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, len(files))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range files {
		g.Go(func() error {
			src, err := loader.LoadFile(path, a.svc.MaxSourceBytes())
			if err != nil {
				return err
			}
			res, _ := a.svc.Check(src.Content)
			results[i] = FileResult{Path: path, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

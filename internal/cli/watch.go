package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"sync"

	"c4dsl/internal/loader"
	"c4dsl/internal/report"
	"c4dsl/internal/watcher"
)

func (a *App) watch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	debounce := fs.Duration("debounce", watcher.DefaultDebounce, "Quiet period before re-validating a changed file")
	if ok, err := a.parseFlags(fs, args); !ok {
		return err
	}
	if fs.NArg() == 0 {
		return usageError("watch: at least one path is required")
	}

	results, err := a.validatePaths(ctx, fs.Args())
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprint(a.stdout, report.ValidationTerminal(r.Path, r.Result))
	}

	// Debounce timers fire on their own goroutines
	var mu sync.Mutex
	w := watcher.New(fs.Args(), func(path string) {
		mu.Lock()
		defer mu.Unlock()

		src, err := loader.LoadFile(path, a.svc.MaxSourceBytes())
		if err != nil {
			fmt.Fprintf(a.stderr, "%s: %v\n", path, err)
			return
		}
		res, _ := a.svc.Check(src.Content)
		fmt.Fprint(a.stdout, report.ValidationTerminal(path, res))
	}).WithDebounce(*debounce)

	fmt.Fprintln(a.stderr, "Watching for changes, press Ctrl+C to stop")
	if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

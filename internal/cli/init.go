package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"c4dsl/internal/config"
)

// initConfig writes a config file holding the defaults
func (a *App) initConfig(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	path := fs.String("path", config.DefaultConfigPath(), "Where to write the config file")
	force := fs.Bool("force", false, "Overwrite an existing file")
	if ok, err := a.parseFlags(fs, args); !ok {
		return err
	}
	if fs.NArg() != 0 {
		return usageError("init: unexpected argument %q", fs.Arg(0))
	}

	if _, err := os.Stat(*path); err == nil && !*force {
		return usageError("init: %s already exists (use -force to overwrite)", *path)
	}

	if err := config.DefaultConfig().Save(*path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintln(a.stdout, *path)
	return nil
}

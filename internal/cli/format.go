package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"c4dsl/internal/codec"
	"c4dsl/internal/loader"
	"c4dsl/internal/report"
)

func (a *App) format(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("format", flag.ContinueOnError)
	write := fs.Bool("w", false, "Write the result back to the file instead of stdout")
	if ok, err := a.parseFlags(fs, args); !ok {
		return err
	}
	path, err := singlePath(fs)
	if err != nil {
		return err
	}

	src, err := loader.LoadFile(path, a.svc.MaxSourceBytes())
	if err != nil {
		return err
	}

	formatted, err := a.svc.Format(ctx, src.Content)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if !*write {
		_, err := fmt.Fprint(a.stdout, formatted)
		return err
	}
	if formatted == src.Content {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintln(a.stderr, path)
	return nil
}

func (a *App) analyze(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print the analysis as JSON")
	if ok, err := a.parseFlags(fs, args); !ok {
		return err
	}
	path, err := singlePath(fs)
	if err != nil {
		return err
	}

	src, err := loader.LoadFile(path, a.svc.MaxSourceBytes())
	if err != nil {
		return err
	}

	result, err := a.svc.Analyze(ctx, src.Content)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if *asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	_, err = fmt.Fprint(a.stdout, report.AnalysisTerminal(result))
	return err
}

func (a *App) convert(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	to := fs.String("to", "", "Output format: "+joinFormats(codec.Formats()))
	from := fs.String("from", "", "Input format (default: guessed from the file extension)")
	out := fs.String("o", "", "Write output to a file instead of stdout")
	if ok, err := a.parseFlags(fs, args); !ok {
		return err
	}
	path, err := singlePath(fs)
	if err != nil {
		return err
	}
	if *to == "" {
		return usageError("convert: -to is required (%s)", joinFormats(codec.Formats()))
	}
	if _, err := codec.Lookup(*to); err != nil {
		return usageError("convert: %v", err)
	}

	inFormat := *from
	if inFormat == "" {
		inFormat = loader.FormatForPath(path)
	}

	src, err := loader.LoadFile(path, a.svc.MaxSourceBytes())
	if err != nil {
		return err
	}

	data, err := a.svc.Convert(ctx, src.Content, inFormat, *to)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if *out == "" {
		_, err := a.stdout.Write(data)
		return err
	}
	return os.WriteFile(*out, data, 0644)
}

package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"c4dsl/internal/analysis"
	"c4dsl/internal/codec"
	"c4dsl/internal/domain"
	"c4dsl/internal/formatter"
	"c4dsl/internal/loader"
	"c4dsl/internal/metrics"
	"c4dsl/internal/parser"
	"c4dsl/internal/repository"
	"c4dsl/internal/validator"
)

// Validation outcomes used for metrics and events
const (
	OutcomeValid       = "valid"
	OutcomeInvalid     = "invalid"
	OutcomeSyntaxError = "syntax_error"
	OutcomeOK          = "ok"
)

// DefaultMaxSourceBytes bounds the size of a single DSL source
const DefaultMaxSourceBytes int64 = 4 << 20

// Options configures a WorkspaceService
type Options struct {
	BestPractices  bool
	MaxSourceBytes int64
}

// DefaultOptions returns the options used when no config is present
func DefaultOptions() Options {
	return Options{
		BestPractices:  true,
		MaxSourceBytes: DefaultMaxSourceBytes,
	}
}

// WorkspaceService provides validation, formatting, analysis, and
// conversion of DSL sources. The repository, event bus, and metrics
// registry are optional.
type WorkspaceService struct {
	repo           repository.Repository
	eventBus       *EventBus
	metrics        *metrics.Registry
	validator      *validator.Validator
	maxSourceBytes int64
	log            *zap.SugaredLogger
	now            func() time.Time
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(repo repository.Repository, eventBus *EventBus, reg *metrics.Registry, opts Options) *WorkspaceService {
	if opts.MaxSourceBytes <= 0 {
		opts.MaxSourceBytes = DefaultMaxSourceBytes
	}
	return &WorkspaceService{
		repo:           repo,
		eventBus:       eventBus,
		metrics:        reg,
		validator:      validator.New(validator.WithBestPractices(opts.BestPractices)),
		maxSourceBytes: opts.MaxSourceBytes,
		log:            zap.S().Named("service"),
		now:            time.Now,
	}
}

// Digest returns the hex blake2b-256 digest of a source
func Digest(content string) string {
	sum := blake2b.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// MaxSourceBytes is the largest source the service accepts
func (s *WorkspaceService) MaxSourceBytes() int64 {
	return s.maxSourceBytes
}

func (s *WorkspaceService) checkSize(content string) error {
	if int64(len(content)) > s.maxSourceBytes {
		return fmt.Errorf("source is %d bytes, limit is %d: %w", len(content), s.maxSourceBytes, loader.ErrTooLarge)
	}
	return nil
}

// Check parses and validates content without recording anything. Syntax
// errors are reported as a single finding in an invalid result.
func (s *WorkspaceService) Check(content string) (domain.ValidationResult, string) {
	ws, err := parser.Parse(content)
	if err != nil {
		return domain.NewValidationResult([]domain.ParseError{syntaxFinding(err)}, nil), OutcomeSyntaxError
	}

	res := s.validator.Validate(ws)
	if res.IsValid {
		return res, OutcomeValid
	}
	return res, OutcomeInvalid
}

func syntaxFinding(err error) domain.ParseError {
	var se *parser.SyntaxError
	if errors.As(err, &se) {
		return se.ParseError()
	}
	return domain.ParseError{Code: domain.CodeSyntax, Message: err.Error()}
}

// Validate parses and validates content, records the run, and publishes
// a validation_completed event. source names the input (a path, or empty).
func (s *WorkspaceService) Validate(ctx context.Context, source, content string) (*domain.Run, error) {
	if err := s.checkSize(content); err != nil {
		return nil, err
	}

	start := time.Now()
	res, outcome := s.Check(content)
	elapsed := time.Since(start)

	run := &domain.Run{
		ID:        uuid.NewString(),
		Digest:    Digest(content),
		Source:    source,
		IsValid:   res.IsValid,
		Errors:    res.Errors,
		Warnings:  res.Warnings,
		CreatedAt: s.now().UTC(),
	}

	if s.repo != nil {
		if err := s.repo.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to save run: %w", err)
		}
	}

	if s.metrics != nil {
		s.metrics.RecordValidation(outcome, len(res.Errors), len(res.Warnings), elapsed)
	}

	s.log.Debugw("Validated source",
		"source", source,
		"outcome", outcome,
		"errors", len(res.Errors),
		"warnings", len(res.Warnings),
		"duration", elapsed)

	s.eventBus.Publish(Event{
		Type: EventValidationCompleted,
		Payload: map[string]interface{}{
			"run_id":   run.ID,
			"source":   source,
			"valid":    run.IsValid,
			"errors":   len(run.Errors),
			"warnings": len(run.Warnings),
		},
	})

	return run, nil
}

// Format returns the canonical rendering of content. Syntax failures are
// returned as *parser.SyntaxError.
func (s *WorkspaceService) Format(ctx context.Context, content string) (string, error) {
	if err := s.checkSize(content); err != nil {
		return "", err
	}

	ws, err := parser.Parse(content)
	if err != nil {
		s.recordFormat(OutcomeSyntaxError)
		return "", err
	}

	out := formatter.Format(ws)
	s.recordFormat(OutcomeOK)

	s.eventBus.Publish(Event{
		Type:    EventFormatCompleted,
		Payload: map[string]interface{}{"changed": out != content},
	})

	return out, nil
}

func (s *WorkspaceService) recordFormat(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordFormat(outcome)
	}
}

// Analyze returns structural statistics and suggestions for content
func (s *WorkspaceService) Analyze(ctx context.Context, content string) (*analysis.Result, error) {
	if err := s.checkSize(content); err != nil {
		return nil, err
	}

	ws, err := parser.Parse(content)
	if err != nil {
		return nil, err
	}

	result := analysis.Analyze(ws)

	s.eventBus.Publish(Event{
		Type: EventAnalysisCompleted,
		Payload: map[string]interface{}{
			"elements":   result.TotalElements(),
			"complexity": string(result.Complexity),
		},
	})

	return result, nil
}

// Convert reads content in one format and writes it in another. Formats
// are codec names: dsl, json, yaml.
func (s *WorkspaceService) Convert(ctx context.Context, content, from, to string) ([]byte, error) {
	if err := s.checkSize(content); err != nil {
		return nil, err
	}

	importer, err := codec.Lookup(from)
	if err != nil {
		return nil, err
	}
	exporter, err := codec.Lookup(to)
	if err != nil {
		return nil, err
	}

	// Importers wrap their own decode errors; DSL syntax errors stay typed
	ws, err := importer.Parse(bytes.NewReader([]byte(content)))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := exporter.Export(ws, &buf); err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", exporter.Format(), err)
	}
	return buf.Bytes(), nil
}

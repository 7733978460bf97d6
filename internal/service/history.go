package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"c4dsl/internal/domain"
)

var (
	// ErrRunNotFound is returned when a run id is unknown
	ErrRunNotFound = errors.New("run not found")
	// ErrHistoryDisabled is returned by history operations when no
	// repository is configured
	ErrHistoryDisabled = errors.New("run history is disabled")
)

// DefaultRunLimit caps run listings that do not set a limit
const DefaultRunLimit = 50

// GetRun retrieves a single validation run by ID
func (s *WorkspaceService) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	run, err := s.repo.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	return run, nil
}

// ListRuns returns recorded runs, newest first
func (s *WorkspaceService) ListRuns(ctx context.Context, filter domain.RunFilter) ([]domain.Run, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultRunLimit
	}
	return s.repo.ListRuns(ctx, filter)
}

// PruneRuns deletes runs older than maxAge and returns how many were removed
func (s *WorkspaceService) PruneRuns(ctx context.Context, maxAge time.Duration) (int64, error) {
	if s.repo == nil {
		return 0, ErrHistoryDisabled
	}

	n, err := s.repo.DeleteRunsBefore(ctx, s.now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}

	if n > 0 {
		s.log.Infow("Pruned validation runs", "count", n, "max_age", maxAge)
		s.eventBus.Publish(Event{
			Type:    EventRunsPruned,
			Payload: map[string]int64{"count": n},
		})
	}
	return n, nil
}

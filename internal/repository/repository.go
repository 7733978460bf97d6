package repository

import (
	"context"
	"time"

	"c4dsl/internal/domain"
)

// Repository defines the interface for validation history access
type Repository interface {
	// Read operations
	GetRun(ctx context.Context, id string) (*domain.Run, error)
	ListRuns(ctx context.Context, filter domain.RunFilter) ([]domain.Run, error)
	CountRuns(ctx context.Context) (int, error)

	// Write operations
	SaveRun(ctx context.Context, run *domain.Run) error
	DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases resources
	Close() error
}

package sqlite

import (
	"context"
	"testing"
	"time"

	"c4dsl/internal/domain"
	"c4dsl/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repository.Repository = (*Repository)(nil)

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	require.NoError(t, err, "failed to create test repository")

	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func newRun(id, digest string, valid bool, at time.Time) *domain.Run {
	run := &domain.Run{
		ID:        id,
		Digest:    digest,
		Source:    "model.dsl",
		IsValid:   valid,
		Errors:    []domain.ParseError{},
		Warnings:  []domain.ParseError{},
		CreatedAt: at,
	}
	if !valid {
		run.Errors = []domain.ParseError{{
			Code:     domain.CodeUndefinedReference,
			Message:  "Relationship destination 'q' references undefined element",
			Location: domain.NewLocation(4, 5),
		}}
	}
	return run
}

func TestSaveAndGetRun(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("round trips findings", func(t *testing.T) {
		run := newRun("run-1", "abc", false, at)
		run.Warnings = []domain.ParseError{{Code: domain.CodeMissingName, Message: "Consider adding a name"}}
		require.NoError(t, repo.SaveRun(ctx, run))

		got, err := repo.GetRun(ctx, "run-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, run, got)
	})

	t.Run("empty findings come back as empty lists", func(t *testing.T) {
		require.NoError(t, repo.SaveRun(ctx, newRun("run-2", "def", true, at)))

		got, err := repo.GetRun(ctx, "run-2")
		require.NoError(t, err)
		assert.NotNil(t, got.Errors)
		assert.Empty(t, got.Errors)
		assert.True(t, got.IsValid)
	})

	t.Run("missing run returns nil", func(t *testing.T) {
		got, err := repo.GetRun(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate id fails", func(t *testing.T) {
		assert.Error(t, repo.SaveRun(ctx, newRun("run-1", "abc", true, at)))
	})
}

func TestListRuns(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveRun(ctx, newRun("a", "d1", true, base)))
	require.NoError(t, repo.SaveRun(ctx, newRun("b", "d2", false, base.Add(time.Minute))))
	require.NoError(t, repo.SaveRun(ctx, newRun("c", "d1", false, base.Add(2*time.Minute))))

	ids := func(runs []domain.Run) []string {
		out := make([]string, len(runs))
		for i, r := range runs {
			out[i] = r.ID
		}
		return out
	}

	t.Run("newest first", func(t *testing.T) {
		runs, err := repo.ListRuns(ctx, domain.RunFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "b", "a"}, ids(runs))
	})

	t.Run("by digest", func(t *testing.T) {
		runs, err := repo.ListRuns(ctx, domain.RunFilter{Digest: "d1"})
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a"}, ids(runs))
	})

	t.Run("by validity with limit", func(t *testing.T) {
		invalid := false
		runs, err := repo.ListRuns(ctx, domain.RunFilter{Valid: &invalid, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"c"}, ids(runs))
	})

	t.Run("count and prune", func(t *testing.T) {
		n, err := repo.CountRuns(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		deleted, err := repo.DeleteRunsBefore(ctx, base.Add(90*time.Second))
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		runs, err := repo.ListRuns(ctx, domain.RunFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"c"}, ids(runs))
	})
}

func TestMigrateIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.migrate())
	require.NoError(t, repo.migrate())

	n, err := repo.CountRuns(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

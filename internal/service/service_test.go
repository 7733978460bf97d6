package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c4dsl/internal/domain"
	"c4dsl/internal/loader"
	"c4dsl/internal/metrics"
	"c4dsl/internal/parser"
	"c4dsl/internal/repository/sqlite"
)

const validDSL = `workspace "Shop" "Online shop" {
    model {
        buyer = person "Buyer" "Buys things"
        shop = softwareSystem "Shop" "Sells things"
        buyer -> shop "Orders from"
    }
    views {
        systemContext shop {
            include *
        }
    }
}
`

const invalidDSL = `workspace "Shop" "Online shop" {
    model {
        buyer = person "Buyer" "Buys things"
        buyer -> ghost "Haunts"
    }
}
`

func newTestService(t *testing.T) (*WorkspaceService, *EventBus, chan Event, *metrics.Registry) {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	bus := NewEventBus()
	events := make(chan Event, 16)
	bus.Subscribe(events)

	reg := metrics.NewRegistry()
	return NewWorkspaceService(repo, bus, reg, DefaultOptions()), bus, events, reg
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid source is recorded", func(t *testing.T) {
		svc, _, events, reg := newTestService(t)

		run, err := svc.Validate(ctx, "shop.dsl", validDSL)
		require.NoError(t, err)
		assert.True(t, run.IsValid)
		assert.Empty(t, run.Errors)
		assert.NotEmpty(t, run.ID)
		assert.Equal(t, Digest(validDSL), run.Digest)
		assert.Len(t, run.Digest, 64)

		stored, err := svc.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.Digest, stored.Digest)
		assert.Equal(t, "shop.dsl", stored.Source)

		ev := <-events
		assert.Equal(t, EventValidationCompleted, ev.Type)
		assert.Equal(t, float64(1), testutil.ToFloat64(reg.ValidationsTotal.WithLabelValues(OutcomeValid)))
	})

	t.Run("semantic errors make the run invalid", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		run, err := svc.Validate(ctx, "", invalidDSL)
		require.NoError(t, err)
		assert.False(t, run.IsValid)
		require.Len(t, run.Errors, 1)
		assert.Equal(t, "Relationship destination 'ghost' references undefined element", run.Errors[0].Message)
		assert.Equal(t, domain.CodeUndefinedReference, run.Errors[0].Code)
	})

	t.Run("syntax errors become a single finding", func(t *testing.T) {
		svc, _, _, reg := newTestService(t)

		run, err := svc.Validate(ctx, "", `workspace { model { a = robot "A" } }`)
		require.NoError(t, err)
		assert.False(t, run.IsValid)
		require.Len(t, run.Errors, 1)
		assert.Equal(t, domain.CodeSyntax, run.Errors[0].Code)
		assert.NotNil(t, run.Errors[0].Location)
		assert.Empty(t, run.Warnings)
		assert.Equal(t, float64(1), testutil.ToFloat64(reg.ValidationsTotal.WithLabelValues(OutcomeSyntaxError)))
	})

	t.Run("oversized source is rejected", func(t *testing.T) {
		svc := NewWorkspaceService(nil, nil, nil, Options{MaxSourceBytes: 8})
		_, err := svc.Validate(ctx, "", validDSL)
		assert.True(t, errors.Is(err, loader.ErrTooLarge))
	})

	t.Run("best practices can be disabled", func(t *testing.T) {
		svc := NewWorkspaceService(nil, nil, nil, Options{BestPractices: false})
		run, err := svc.Validate(ctx, "", `workspace { model { a = person "A" } }`)
		require.NoError(t, err)
		assert.True(t, run.IsValid)
		assert.Empty(t, run.Warnings)
	})
}

func TestFormat(t *testing.T) {
	ctx := context.Background()
	svc, _, events, reg := newTestService(t)

	t.Run("formats valid source", func(t *testing.T) {
		out, err := svc.Format(ctx, `workspace "W" { model { a = person "A" } }`)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, `workspace "W" {`))
		assert.Contains(t, out, "\n    a = person \"A\"\n")

		ev := <-events
		assert.Equal(t, EventFormatCompleted, ev.Type)
		assert.Equal(t, float64(1), testutil.ToFloat64(reg.FormatTotal.WithLabelValues(OutcomeOK)))
	})

	t.Run("format is idempotent", func(t *testing.T) {
		once, err := svc.Format(ctx, validDSL)
		require.NoError(t, err)
		twice, err := svc.Format(ctx, once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	})

	t.Run("syntax errors are returned typed", func(t *testing.T) {
		_, err := svc.Format(ctx, `workspace {`)
		var se *parser.SyntaxError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, float64(1), testutil.ToFloat64(reg.FormatTotal.WithLabelValues(OutcomeSyntaxError)))
	})
}

func TestAnalyze(t *testing.T) {
	svc := NewWorkspaceService(nil, nil, nil, DefaultOptions())

	result, err := svc.Analyze(context.Background(), validDSL)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalElements())
	assert.Equal(t, 1, result.RelationshipCount)

	_, err = svc.Analyze(context.Background(), "model {")
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	svc := NewWorkspaceService(nil, nil, nil, DefaultOptions())

	t.Run("dsl to json and back", func(t *testing.T) {
		data, err := svc.Convert(ctx, validDSL, "dsl", "json")
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "Shop", decoded["name"])

		back, err := svc.Convert(ctx, string(data), "json", "dsl")
		require.NoError(t, err)
		formatted, err := svc.Format(ctx, validDSL)
		require.NoError(t, err)
		assert.Equal(t, formatted, string(back))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := svc.Convert(ctx, validDSL, "dsl", "xml")
		assert.Error(t, err)
	})

	t.Run("bad json input", func(t *testing.T) {
		_, err := svc.Convert(ctx, "{", "json", "dsl")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse JSON")
	})
}

func TestHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled without repository", func(t *testing.T) {
		svc := NewWorkspaceService(nil, nil, nil, DefaultOptions())
		_, err := svc.ListRuns(ctx, domain.RunFilter{})
		assert.ErrorIs(t, err, ErrHistoryDisabled)
		_, err = svc.GetRun(ctx, "x")
		assert.ErrorIs(t, err, ErrHistoryDisabled)
	})

	t.Run("unknown run", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		_, err := svc.GetRun(ctx, "missing")
		assert.ErrorIs(t, err, ErrRunNotFound)
	})

	t.Run("list by digest and prune", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		clock := base
		svc.now = func() time.Time { return clock }

		_, err := svc.Validate(ctx, "a.dsl", validDSL)
		require.NoError(t, err)
		clock = base.Add(time.Hour)
		_, err = svc.Validate(ctx, "b.dsl", invalidDSL)
		require.NoError(t, err)
		clock = base.Add(2 * time.Hour)
		_, err = svc.Validate(ctx, "c.dsl", validDSL)
		require.NoError(t, err)

		runs, err := svc.ListRuns(ctx, domain.RunFilter{Digest: Digest(validDSL)})
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "c.dsl", runs[0].Source)

		clock = base.Add(3 * time.Hour)
		n, err := svc.PruneRuns(ctx, 90*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		runs, err = svc.ListRuns(ctx, domain.RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "c.dsl", runs[0].Source)
	})
}

func TestEventBusDropsForSlowSubscribers(t *testing.T) {
	bus := NewEventBus()
	ch := make(chan Event, 1)
	bus.Subscribe(ch)

	bus.Publish(Event{Type: EventFileChanged})
	bus.Publish(Event{Type: EventFileChanged})

	assert.Len(t, ch, 1)

	var nilBus *EventBus
	nilBus.Publish(Event{Type: EventFileChanged})
}

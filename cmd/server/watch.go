package main

import (
	"context"

	"go.uber.org/zap"

	"c4dsl/internal/loader"
	"c4dsl/internal/service"
)

// watchHandler re-validates a changed file and announces the change
func watchHandler(ctx context.Context, svc *service.WorkspaceService, bus *service.EventBus, maxBytes int64) func(path string) {
	return func(path string) {
		bus.Publish(service.Event{
			Type:    service.EventFileChanged,
			Payload: map[string]string{"path": path},
		})

		src, err := loader.LoadFile(path, maxBytes)
		if err != nil {
			zap.S().Warnw("Failed to read changed file", "path", path, "error", err)
			return
		}
		if _, err := svc.Validate(ctx, path, src.Content); err != nil {
			zap.S().Warnw("Failed to validate changed file", "path", path, "error", err)
		}
	}
}

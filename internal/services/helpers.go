package services

import (
	"context"

	"studyos/internal/contextutils"
	"studyos/internal/events"

	"go.uber.org/zap"
)

// publishEvent hands an event to the bus without failing the caller
func publishEvent(ctx context.Context, bus events.EventBus, logger *zap.Logger, event events.Event) {
	if bus == nil {
		return
	}
	if err := bus.PublishAsync(ctx, event); err != nil {
		contextutils.Logger(ctx, logger).Warn("Failed to publish event",
			zap.String("event_type", event.GetEventType()),
			zap.Error(err))
	}
}

// internalError logs the cause with the request logger and hides it from the caller
func internalError(ctx context.Context, logger *zap.Logger, message string, err error) error {
	contextutils.Logger(ctx, logger).Error(message, zap.Error(err))
	se := NewInternalError(message)
	se.Cause = err
	return se
}

// passThrough keeps service errors and wraps everything else as internal
func passThrough(ctx context.Context, logger *zap.Logger, message string, err error) error {
	if IsServiceError(err) {
		return err
	}
	return internalError(ctx, logger, message, err)
}

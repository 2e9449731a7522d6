package services

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/exam-service/internal/events"
)

// withTx runs fn in one transaction and classifies storage failures
func withTx(ctx context.Context, db *gorm.DB, op string, fn func(tx *gorm.DB) error) error {
	err := db.WithContext(ctx).Transaction(fn)
	return persistenceError(op, err)
}

// publishEvent is called after commit; a failed publish is logged, never returned
func publishEvent(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, eventType string, data interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, eventType, data); err != nil {
		logger.ErrorContext(ctx, "Failed to publish event", "type", eventType, "error", err)
	}
}

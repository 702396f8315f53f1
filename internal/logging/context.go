package logging

import (
	"context"
	"log/slog"

	"scribe/internal/services"
)

// Standardized attribute keys shared across the codebase.
const (
	FieldComponent = "component"
	FieldStage     = "stage"
	FieldItemID    = "item_id"
	FieldVideoID   = "video_id"
	FieldRequestID = "request_id"
)

// WithContext returns a logger enriched with correlation fields carried in ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if ctx == nil {
		return logger
	}
	attrs := make([]any, 0, 4)
	if id, ok := services.ItemIDFromContext(ctx); ok {
		attrs = append(attrs, Int64(FieldItemID, id))
	}
	if videoID, ok := services.VideoIDFromContext(ctx); ok {
		attrs = append(attrs, String(FieldVideoID, videoID))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		attrs = append(attrs, String(FieldStage, stage))
	}
	if requestID, ok := services.RequestIDFromContext(ctx); ok {
		attrs = append(attrs, String(FieldRequestID, requestID))
	}
	if len(attrs) == 0 {
		return logger
	}
	return logger.With(attrs...)
}

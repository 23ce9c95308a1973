package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldMediaID is the standardized structured logging key for media identifiers.
	FieldMediaID = "media_id"
	// FieldJobID is the standardized structured logging key for job identifiers.
	FieldJobID = "job_id"
	// FieldLanguage is the standardized structured logging key for language codes.
	FieldLanguage = "language"
	// FieldSegment is the standardized structured logging key for segment indexes.
	FieldSegment = "segment"
)

type contextKey string

const (
	mediaIDContextKey contextKey = "media_id"
	jobIDContextKey   contextKey = "job_id"
)

// WithMediaID annotates the context with the media identifier being processed.
func WithMediaID(ctx context.Context, mediaID string) context.Context {
	return context.WithValue(ctx, mediaIDContextKey, mediaID)
}

// MediaIDFromContext retrieves the media identifier stored in the context.
func MediaIDFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(mediaIDContextKey).(string)
	return value, ok && value != ""
}

// WithJobID annotates the context with the active job identifier.
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, jobIDContextKey, jobID)
}

// JobIDFromContext retrieves the job identifier stored in the context.
func JobIDFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(jobIDContextKey).(string)
	return value, ok && value != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := MediaIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldMediaID, id))
	}
	if id, ok := JobIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldJobID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}

package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Attribute keys shared by every request-scoped log line.
const (
	KeyRequestID = "request_id"
	KeyViewerID  = "viewer_id"
)

// With returns a context whose logger carries the extra fields.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).With(fields...))
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return With(ctx, KeyRequestID, requestID)
}

func WithViewer(ctx context.Context, viewerID string) context.Context {
	return With(ctx, KeyViewerID, viewerID)
}

// From returns the request logger, or the process logger outside a request.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return LoggerWrapper()
}

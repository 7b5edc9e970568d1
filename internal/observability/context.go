package observability

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

// WithRequestID stores a request id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// RequestID returns the request id stored in the context, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// LoggerFromContext returns base tagged with the request id, if one is set.
func LoggerFromContext(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	id := RequestID(ctx)
	if id == "" {
		return base
	}
	return base.With().Str("request_id", id).Logger()
}

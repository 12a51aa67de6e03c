package middleware

import "context"

type contextKey string

const traceContextKey contextKey = "trace_id"

// TraceIDFromContext returns the request's trace id, or "" when none was set.
func TraceIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(traceContextKey).(string); ok {
		return v
	}
	return ""
}

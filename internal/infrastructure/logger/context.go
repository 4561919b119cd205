package logger

import "context"

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID stores the request ID in the context so lower layers, the
// SQL trace logger included, can correlate their output with the request
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID stored by WithRequestID, or ""
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

package audit

import "context"

type contextKey string

const (
	requestIDKey contextKey = "audit_request_id"
	clientKey    contextKey = "audit_client"
)

// WithRequestID returns a context carrying the request identifier for audit records.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request identifier, or "" when absent.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithClient returns a context carrying the authenticated client name.
func WithClient(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, clientKey, client)
}

// ClientFromContext extracts the authenticated client name, or "" when absent.
func ClientFromContext(ctx context.Context) string {
	client, _ := ctx.Value(clientKey).(string)
	return client
}

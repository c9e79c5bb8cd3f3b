package common

import (
	"context"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRequestID contextKey = "request_id"
	ContextKeyDocKey    contextKey = "doc_key"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithDocKey adds the document storage key being processed to the context
func WithDocKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ContextKeyDocKey, key)
}

// DocKeyFromContext extracts the document storage key from context
func DocKeyFromContext(ctx context.Context) string {
	if key, ok := ctx.Value(ContextKeyDocKey).(string); ok {
		return key
	}
	return ""
}

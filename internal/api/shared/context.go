package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
)

// Key type for context values
type ContextKey string

// Context keys for various values
const (
	// IdentityContextKey is the context key under which the
	// authentication middleware installs the authenticated username.
	// Absent key means the request is unauthenticated.
	IdentityContextKey ContextKey = "identity"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of bytes used to generate the trace ID
	TraceIDLength = 16 // 32 hex characters
)

// tokenCarrierKey is the private context key for the request's TokenCarrier.
type tokenCarrierKey struct{}

// TokenCarrier holds a token issued while handling the current request so
// the response pipeline can attach it as a cookie after the body is
// produced. One carrier exists per request; it is installed by the cookie
// middleware and must be cleared on every exit path so a token can never
// leak into a reused execution context.
type TokenCarrier struct {
	mu    sync.Mutex
	token string
}

// Set stores a freshly issued token. Called at most once per request, by
// the login path.
func (c *TokenCarrier) Set(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Get returns the pending token, or "" when none was issued.
func (c *TokenCarrier) Get() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Clear drops the pending token.
func (c *TokenCarrier) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// WithTokenCarrier returns a context carrying the given TokenCarrier.
func WithTokenCarrier(ctx context.Context, carrier *TokenCarrier) context.Context {
	return context.WithValue(ctx, tokenCarrierKey{}, carrier)
}

// TokenCarrierFromContext retrieves the request's TokenCarrier, or nil
// when the cookie middleware did not run for this request.
func TokenCarrierFromContext(ctx context.Context) *TokenCarrier {
	carrier, _ := ctx.Value(tokenCarrierKey{}).(*TokenCarrier)
	return carrier
}

// AuthenticatedUsername retrieves the authenticated username from the
// context. Returns the username and a boolean indicating if it was set.
func AuthenticatedUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(IdentityContextKey).(string)
	return username, ok && username != ""
}

// WithAuthenticatedUsername returns a context carrying the authenticated
// username for the remainder of the request.
func WithAuthenticatedUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, IdentityContextKey, username)
}

// SetTraceID adds a trace ID to the context.
// This is useful for correlating logs and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// generateTraceID creates a random trace ID for request tracking.
// Returns a 32-character hex string (16 bytes).
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is effectively unrecoverable; log and
		// carry on without a trace ID rather than serving a static one.
		slog.Error("failed to generate trace ID", "error", err)
		return ""
	}
	return hex.EncodeToString(b)
}

package auth

import (
	"context"
)

// Issuer is the fixed issuer claim stamped on every token this service
// creates; verification rejects tokens carrying any other issuer.
const Issuer = "backend-app"

// TokenService defines operations for issuing and verifying the signed,
// expiring bearer tokens that assert a user's identity.
type TokenService interface {
	// IssueToken creates a signed token bound to the given subject
	// (username), the fixed issuer, and an expiry of now + TTL.
	// Returns an error wrapping ErrTokenCreation if signing fails;
	// callers treat that as fatal for the request, never retryable.
	IssueToken(ctx context.Context, subject string) (string, error)

	// VerifyToken checks the token's signature, issuer, and expiry, and
	// returns the subject on success. Any verification failure — bad
	// signature, wrong issuer, expired, malformed — comes back as
	// ErrExpiredToken or ErrInvalidToken. Verification failure is an
	// expected outcome the caller branches on, not an exceptional one.
	VerifyToken(ctx context.Context, tokenString string) (string, error)
}

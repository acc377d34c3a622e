package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token is malformed, carries the
	// wrong issuer, or its signature doesn't match.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenCreation indicates token signing failed. This is a fatal
	// misconfiguration (bad secret), never a transient condition, and is
	// surfaced as a server error rather than retried.
	ErrTokenCreation = errors.New("failed to create authentication token")
)

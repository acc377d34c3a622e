package service

import "errors"

// Common service-layer errors, translated to HTTP codes at the API boundary.
var (
	// ErrBadCredentials is returned on login when the username is
	// unknown or the password does not match. The two cases are
	// deliberately indistinguishable to the caller.
	ErrBadCredentials = errors.New("invalid username or password")

	// ErrInvalidIdentity is returned when a request's authenticated
	// identity cannot be resolved to a stored user. This covers both
	// "no identity installed" and "authenticated but principal since
	// deleted".
	ErrInvalidIdentity = errors.New("authenticated identity could not be resolved")

	// ErrTaskNotOwned is returned when a task exists but belongs to a
	// different user, or to nobody. A task without an owner is denied,
	// never treated as public.
	ErrTaskNotOwned = errors.New("unauthorized access: task not owned by user")
)

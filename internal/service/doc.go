// Package service implements the application's use cases: registration,
// login, and ownership-guarded task management. Services depend on store
// interfaces and return sentinel errors that the API layer translates to
// HTTP responses.
package service

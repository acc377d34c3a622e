// Package api contains the HTTP handlers, request/response models, and
// the mapping from internal errors to HTTP status codes and stable error
// codes.
package api

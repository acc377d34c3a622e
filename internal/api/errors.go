package api

import (
	"errors"
	"net/http"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/service"
	"github.com/taskboard/taskboard-api/internal/service/auth"
	"github.com/taskboard/taskboard-api/internal/store"
)

// Stable machine-readable error codes carried in every error response.
// Clients branch on these, not on the human-readable message.
const (
	CodeBadCredentials    = "BAD_CREDENTIALS"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeForbidden         = "FORBIDDEN"
	CodeTaskNotFound      = "TASK_NOT_FOUND"
	CodeTaskInvalidStatus = "TASK_INVALID_STATUS"
	CodeUsernameTaken     = "USERNAME_TAKEN"
	CodeValidation        = "VALIDATION_ERROR"
	CodeInternal          = "INTERNAL_ERROR"
)

// MapErrorToStatusCode translates service and store errors to HTTP
// status codes. Unknown errors fall through to 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrBadCredentials),
		errors.Is(err, service.ErrInvalidIdentity),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrTaskNotOwned):
		return http.StatusForbidden
	case errors.Is(err, store.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrUsernameExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest
	case isDomainValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToCode translates an error to its stable error code.
func MapErrorToCode(err error) string {
	switch {
	case errors.Is(err, service.ErrBadCredentials):
		return CodeBadCredentials
	case errors.Is(err, service.ErrInvalidIdentity),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return CodeInvalidToken
	case errors.Is(err, service.ErrTaskNotOwned):
		return CodeForbidden
	case errors.Is(err, store.ErrTaskNotFound), errors.Is(err, store.ErrNotFound):
		return CodeTaskNotFound
	case errors.Is(err, store.ErrUsernameExists):
		return CodeUsernameTaken
	case errors.Is(err, domain.ErrInvalidStatus):
		return CodeTaskInvalidStatus
	case isDomainValidationError(err):
		return CodeValidation
	default:
		return CodeInternal
	}
}

// GetSafeErrorMessage returns a message safe to expose to clients.
// Internal failure details never cross the boundary.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrBadCredentials):
		return "invalid username or password"
	case errors.Is(err, service.ErrInvalidIdentity),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "authentication required"
	case errors.Is(err, service.ErrTaskNotOwned):
		return "access to this task is forbidden"
	case errors.Is(err, store.ErrTaskNotFound), errors.Is(err, store.ErrNotFound):
		return "task not found"
	case errors.Is(err, store.ErrUsernameExists):
		return "username is already taken"
	case errors.Is(err, domain.ErrInvalidStatus):
		return "invalid task status"
	case isDomainValidationError(err):
		return err.Error()
	default:
		return "an internal error occurred"
	}
}

func isDomainValidationError(err error) bool {
	return errors.Is(err, domain.ErrEmptyUsername) ||
		errors.Is(err, domain.ErrUsernameTooLong) ||
		errors.Is(err, domain.ErrPasswordTooShort) ||
		errors.Is(err, domain.ErrPasswordTooLong) ||
		errors.Is(err, domain.ErrEmptyPassword) ||
		errors.Is(err, domain.ErrEmptyTaskTitle) ||
		errors.Is(err, domain.ErrTaskTitleTooLong)
}

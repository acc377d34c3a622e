package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Listing methods return tasks in insertion order (ascending ID); any
// caller-visible ordering beyond that is applied by the service layer.
type TaskStore interface {
	// Create inserts a new task and fills in its generated ID. The
	// persistence layer owns the defaulting rule: CreatedAt is set once
	// at insert if unset, and Status defaults to PENDING. Returns
	// ErrInvalidEntity if the referenced owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// FindByOwner retrieves all tasks owned by the given user.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)

	// FindByOwnerAndStatus retrieves the owner's tasks narrowed to one status.
	FindByOwnerAndStatus(
		ctx context.Context,
		ownerID uuid.UUID,
		status domain.Status,
	) ([]*domain.Task, error)

	// Update persists the task's mutable fields (title, description,
	// due date, status). CreatedAt and OwnerID are never written by this
	// path. Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error
}

package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task validation errors
var (
	ErrEmptyTaskTitle = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong = errors.New("task title must be at most 255 characters long")

	// ErrInvalidStatus is returned when a status string does not name
	// one of the known task statuses.
	ErrInvalidStatus = errors.New("invalid task status")
)

// Status is the lifecycle state of a task.
type Status string

// Valid task statuses. A task that is persisted without an explicit
// status defaults to StatusPending.
const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// ParseStatus matches s case-insensitively against the known statuses.
// Returns ErrInvalidStatus when s names no status; it never panics and
// is the only status conversion path, so an unmatched string is a
// normal outcome rather than control flow by exception.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(s)) {
	case StatusPending:
		return StatusPending, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusDone:
		return StatusDone, nil
	default:
		return "", ErrInvalidStatus
	}
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is a unit of work owned by exactly one user once persisted.
// OwnerID is optional at the type level: a task whose owner is absent is
// treated as owned by nobody, and every ownership check denies access to
// it. CreatedAt is set exactly once, by the persistence layer, and never
// mutated afterward.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      Status     `json:"status"`
	OwnerID     *uuid.UUID `json:"-"`
}

// NewTask builds an unpersisted task from request data. The zero ID,
// CreatedAt, and Status are filled in by the store on insert.
func NewTask(title, description string, dueDate *time.Time) (*Task, error) {
	task := &Task{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrEmptyTaskTitle
	}
	if len(t.Title) > 255 {
		return ErrTaskTitleTooLong
	}
	if t.Status != "" && !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// OwnedBy reports whether the task belongs to the given user. A task
// without an owner belongs to nobody.
func (t *Task) OwnedBy(userID uuid.UUID) bool {
	return t.OwnerID != nil && *t.OwnerID == userID
}

package api

import (
	"time"

	"github.com/taskboard/taskboard-api/internal/domain"
)

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the payload for credential login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse confirms a created account.
type RegisterResponse struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// AuthResponse is the login response body. The issued token is delivered
// in the ACCESS_TOKEN cookie, never in the body.
type AuthResponse struct {
	Username      string `json:"username"`
	Authenticated bool   `json:"authenticated"`
}

// TaskRequest is the payload for creating or updating a task. On update
// the absent fields are left unchanged.
type TaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=255"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// StatusUpdateRequest carries the target status for a status patch.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      string     `json:"status"`
}

// NewTaskResponse converts a domain task to its wire form.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		CreatedAt:   task.CreatedAt,
		DueDate:     task.DueDate,
		Status:      string(task.Status),
	}
}

// NewTaskListResponse converts a slice of domain tasks, preserving order.
func NewTaskListResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t))
	}
	return out
}

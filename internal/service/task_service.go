package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/platform/logger"
	"github.com/taskboard/taskboard-api/internal/store"
)

// Sort values recognized by List. Any other value leaves the store's
// insertion order untouched; an unknown sort is an explicit no-op, not
// an error.
const (
	SortDueDateAsc  = "dueDateAsc"
	SortDueDateDesc = "dueDateDesc"
)

// ListOptions narrows and orders a task listing.
type ListOptions struct {
	// StatusFilter, when non-empty, is matched case-insensitively
	// against the known statuses; junk values are rejected with
	// domain.ErrInvalidStatus.
	StatusFilter string

	// Sort is one of the Sort* constants, or anything else for
	// insertion order.
	Sort string
}

// UpdateTaskRequest carries a partial update: nil fields are left
// untouched. CreatedAt, status, and owner can never be changed through
// this path.
type UpdateTaskRequest struct {
	Title       *string
	Description *string
	DueDate     *time.Time
}

// TaskService orchestrates task CRUD under the owned-task invariant:
// every operation on an existing task first resolves the calling
// principal and denies access unless the task belongs to it.
type TaskService interface {
	// Create builds a task from the request fields, assigns the current
	// principal as owner, and persists it. CreatedAt and status are set
	// by the persistence layer's defaulting rule, never by the caller.
	Create(
		ctx context.Context,
		currentUser string,
		title, description string,
		dueDate *time.Time,
	) (*domain.Task, error)

	// List returns the current principal's tasks, optionally narrowed
	// to one status and ordered by due date.
	List(ctx context.Context, currentUser string, opts ListOptions) ([]*domain.Task, error)

	// Get returns one owned task by ID.
	Get(ctx context.Context, currentUser string, id int64) (*domain.Task, error)

	// Update applies the non-nil fields of req to an owned task.
	Update(
		ctx context.Context,
		currentUser string,
		id int64,
		req UpdateTaskRequest,
	) (*domain.Task, error)

	// UpdateStatus matches statusString case-insensitively against the
	// known statuses and assigns it to an owned task. On no match the
	// task is left unmodified and domain.ErrInvalidStatus is returned.
	UpdateStatus(
		ctx context.Context,
		currentUser string,
		id int64,
		statusString string,
	) (*domain.Task, error)

	// Delete removes an owned task.
	Delete(ctx context.Context, currentUser string, id int64) error
}

type taskServiceImpl struct {
	tasks  store.TaskStore
	users  store.UserStore
	logger *slog.Logger
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(tasks store.TaskStore, users store.UserStore, logger *slog.Logger) TaskService {
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:  tasks,
		users:  users,
		logger: logger.With(slog.String("component", "task_service")),
	}
}

// resolvePrincipal turns the request's authenticated username into a
// stored user. An empty username (no identity installed) and a username
// whose user has since been deleted both come back as ErrInvalidIdentity.
func (s *taskServiceImpl) resolvePrincipal(
	ctx context.Context,
	currentUser string,
) (*domain.User, error) {
	if currentUser == "" {
		return nil, ErrInvalidIdentity
	}

	user, err := s.users.GetByUsername(ctx, currentUser)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidIdentity
		}
		return nil, err
	}

	return user, nil
}

// loadOwnedTask fetches a task and enforces ownership. Absence of an
// owner denies access the same way a foreign owner does.
func (s *taskServiceImpl) loadOwnedTask(
	ctx context.Context,
	currentUser string,
	id int64,
) (*domain.Task, *domain.User, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	principal, err := s.resolvePrincipal(ctx, currentUser)
	if err != nil {
		return nil, nil, err
	}

	if !task.OwnedBy(principal.ID) {
		log := logger.FromContextOrDefault(ctx, s.logger)
		log.Debug("ownership check denied access",
			slog.Int64("task_id", id),
			slog.String("username", currentUser))
		return nil, nil, ErrTaskNotOwned
	}

	return task, principal, nil
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(
	ctx context.Context,
	currentUser string,
	title, description string,
	dueDate *time.Time,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	principal, err := s.resolvePrincipal(ctx, currentUser)
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(title, description, dueDate)
	if err != nil {
		return nil, err
	}
	ownerID := principal.ID
	task.OwnerID = &ownerID

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.String("username", currentUser))
	return task, nil
}

// List implements TaskService.List
func (s *taskServiceImpl) List(
	ctx context.Context,
	currentUser string,
	opts ListOptions,
) ([]*domain.Task, error) {
	principal, err := s.resolvePrincipal(ctx, currentUser)
	if err != nil {
		return nil, err
	}

	var tasks []*domain.Task
	if opts.StatusFilter != "" {
		status, err := domain.ParseStatus(opts.StatusFilter)
		if err != nil {
			return nil, err
		}
		tasks, err = s.tasks.FindByOwnerAndStatus(ctx, principal.ID, status)
		if err != nil {
			return nil, err
		}
	} else {
		tasks, err = s.tasks.FindByOwner(ctx, principal.ID)
		if err != nil {
			return nil, err
		}
	}

	sortTasks(tasks, opts.Sort)
	return tasks, nil
}

// Get implements TaskService.Get
func (s *taskServiceImpl) Get(
	ctx context.Context,
	currentUser string,
	id int64,
) (*domain.Task, error) {
	task, _, err := s.loadOwnedTask(ctx, currentUser, id)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(
	ctx context.Context,
	currentUser string,
	id int64,
	req UpdateTaskRequest,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, _, err := s.loadOwnedTask(ctx, currentUser, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	log.Info("task updated", slog.Int64("task_id", id))
	return task, nil
}

// UpdateStatus implements TaskService.UpdateStatus
func (s *taskServiceImpl) UpdateStatus(
	ctx context.Context,
	currentUser string,
	id int64,
	statusString string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, _, err := s.loadOwnedTask(ctx, currentUser, id)
	if err != nil {
		return nil, err
	}

	status, err := domain.ParseStatus(statusString)
	if err != nil {
		// The task is left untouched; an unmatched status string is a
		// caller error, not a state change.
		return nil, err
	}

	task.Status = status
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	log.Info("task status updated",
		slog.Int64("task_id", id),
		slog.String("status", string(status)))
	return task, nil
}

// Delete implements TaskService.Delete
func (s *taskServiceImpl) Delete(ctx context.Context, currentUser string, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, _, err := s.loadOwnedTask(ctx, currentUser, id); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	log.Info("task deleted", slog.Int64("task_id", id))
	return nil
}

// sortTasks orders tasks by due date when asked to. The sort is stable,
// so tasks without a due date keep their relative insertion order and
// sink to the end in both directions.
func sortTasks(tasks []*domain.Task, sortOrder string) {
	switch sortOrder {
	case SortDueDateAsc:
		sort.SliceStable(tasks, func(i, j int) bool {
			return lessByDueDate(tasks[i], tasks[j])
		})
	case SortDueDateDesc:
		sort.SliceStable(tasks, func(i, j int) bool {
			if tasks[i].DueDate == nil || tasks[j].DueDate == nil {
				return tasks[j].DueDate == nil && tasks[i].DueDate != nil
			}
			return tasks[j].DueDate.Before(*tasks[i].DueDate)
		})
	default:
		// Unrecognized sort values leave insertion order unchanged.
	}
}

func lessByDueDate(a, b *domain.Task) bool {
	if a.DueDate == nil || b.DueDate == nil {
		return b.DueDate == nil && a.DueDate != nil
	}
	return a.DueDate.Before(*b.DueDate)
}

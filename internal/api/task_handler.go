package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/service"
)

// TaskHandler serves the task CRUD endpoints. Every endpoint requires an
// authenticated identity; unauthenticated requests get a 401 here, not in
// the middleware.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// currentUsername extracts the authenticated username installed by the
// auth middleware, or writes a 401 and returns false.
func (h *TaskHandler) currentUsername(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, ok := shared.AuthenticatedUsername(r.Context())
	if !ok || username == "" {
		shared.RespondWithError(w, r, http.StatusUnauthorized,
			"authentication required", CodeInvalidToken)
		return "", false
	}
	return username, true
}

// taskID parses the {id} route parameter.
func (h *TaskHandler) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound,
			"task not found", CodeTaskNotFound)
		return 0, false
	}
	return id, true
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, ok := h.currentUsername(w, r)
	if !ok {
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"invalid request body", CodeValidation)
		return
	}
	if req.Title == nil || *req.Title == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"title is required", CodeValidation)
		return
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	task, err := h.taskService.Create(r.Context(), username, *req.Title, description, req.DueDate)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), MapErrorToCode(err), err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/tasks/%d", task.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// List handles GET /tasks with optional ?status= and ?sort= parameters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	username, ok := h.currentUsername(w, r)
	if !ok {
		return
	}

	opts := service.ListOptions{
		StatusFilter: r.URL.Query().Get("status"),
		Sort:         r.URL.Query().Get("sort"),
	}

	tasks, err := h.taskService.List(r.Context(), username, opts)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), MapErrorToCode(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	username, ok := h.currentUsername(w, r)
	if !ok {
		return
	}
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), username, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), MapErrorToCode(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Update handles PUT /tasks/{id}. Fields absent from the body keep their
// stored values; status and creation time are not updatable here.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	username, ok := h.currentUsername(w, r)
	if !ok {
		return
	}
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"invalid request body", CodeValidation)
		return
	}
	if req.Title != nil && *req.Title == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"title must not be empty", CodeValidation)
		return
	}

	task, err := h.taskService.Update(r.Context(), username, id, service.UpdateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), MapErrorToCode(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// UpdateStatus handles PATCH /tasks/{id}/status.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	username, ok := h.currentUsername(w, r)
	if !ok {
		return
	}
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req StatusUpdateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"invalid request body", CodeValidation)
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"status is required", CodeValidation)
		return
	}

	task, err := h.taskService.UpdateStatus(r.Context(), username, id, req.Status)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), MapErrorToCode(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username, ok := h.currentUsername(w, r)
	if !ok {
		return
	}
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), username, id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), MapErrorToCode(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

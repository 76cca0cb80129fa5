package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service"
)

// TaskHandler handles task CRUD requests. Every operation is scoped to the
// authenticated principal: the owner comes from the request context, never
// from the payload, and a task owned by someone else is answered exactly
// like a task that does not exist.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With("component", "task_handler"),
	}
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipalFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	input, ok := h.decodeTaskRequest(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Create(r.Context(), principal.ID, input)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipalFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	tasks, err := h.taskService.List(r.Context(), principal.ID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponseList(tasks))
}

// ListByStatus handles GET /api/tasks/status/{status}.
func (h *TaskHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipalFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	status := chi.URLParam(r, "status")

	tasks, err := h.taskService.ListByStatus(r.Context(), principal.ID, status)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponseList(tasks))
}

// Search handles GET /api/tasks/search?title=fragment.
func (h *TaskHandler) Search(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipalFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	title := r.URL.Query().Get("title")

	tasks, err := h.taskService.SearchByTitle(r.Context(), principal.ID, title)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponseList(tasks))
}

// GetByID handles GET /api/tasks/{id}.
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	principal, taskID, ok := principalAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	task, err := h.taskService.GetByID(r.Context(), principal.ID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Update handles PUT /api/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, taskID, ok := principalAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	input, ok := h.decodeTaskRequest(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Update(r.Context(), principal.ID, taskID, input)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, taskID, ok := principalAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), principal.ID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeTaskRequest parses and validates a task payload, writing an error
// response on failure. Returns false when a response has been written.
func (h *TaskHandler) decodeTaskRequest(w http.ResponseWriter, r *http.Request) (service.TaskInput, bool) {
	var req TaskRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return service.TaskInput{}, false
	}

	if err := shared.ValidateRequest(req); err != nil {
		if fieldErrors := ValidationErrorMap(err); fieldErrors != nil {
			shared.RespondWithValidationErrors(w, r, fieldErrors)
			return service.TaskInput{}, false
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request data")
		return service.TaskInput{}, false
	}

	return service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
	}, true
}

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/validation"
)

// TaskHandler handles the /api/v1/tasks endpoints.
type TaskHandler struct {
	taskService  service.TaskService
	logger       *slog.Logger
	maxBodyBytes int64
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		taskService:  taskService,
		logger:       log.With(slog.String("component", "task_handler")),
		maxBodyBytes: shared.DefaultMaxBodyBytes,
	}
}

func (h *TaskHandler) log(r *http.Request) *slog.Logger {
	return logger.FromContextOrDefault(r.Context(), h.logger)
}

// readBody reads the request body, writing a 400 and returning false if it
// cannot be read.
func (h *TaskHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := shared.ReadBody(w, r, h.maxBodyBytes)
	if err != nil {
		if errors.Is(err, shared.ErrBodyTooLarge) {
			shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}
	return body, true
}

// ListTasks handles GET /api/v1/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.log(r).Debug("listed tasks", slog.Int("count", len(tasks)))
	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// CreateTask handles POST /api/v1/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	draft, err := validation.ValidateCreate(body)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), userID, draft)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.log(r).Info("task created", slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// GetTask handles GET /api/v1/tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requestContext(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), taskID, userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PATCH /api/v1/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requestContext(w, r)
	if !ok {
		return
	}

	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	patch, err := validation.ValidateUpdate(body)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if patch.IsEmpty() {
		shared.RespondWithError(w, r, http.StatusBadRequest, service.ErrNoFieldsToUpdate.Message)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), taskID, userID, patch)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.log(r).Info("task updated",
		slog.String("task_id", task.ID.String()),
		slog.Any("fields", patch.Fields()))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/v1/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requestContext(w, r)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), taskID, userID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.log(r).Info("task deleted", slog.String("task_id", taskID.String()))
	shared.RespondNoContent(w)
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// TaskIDParam is the chi URL parameter naming a task.
const TaskIDParam = "id"

// TaskHandler serves the /api/task routes.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if tasks == nil {
		// ALLOW-PANIC: constructor precondition
		panic("tasks cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{tasks: tasks, logger: logger.With("component", "task_handler")}
}

// Create handles POST /api/task.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.tasks.Create(r.Context(), caller, service.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate,
		Status:         req.Status,
		Priority:       req.Priority,
		AssignedUserID: req.AssignedUserID,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := TaskResponse{Message: "Task created successfully", Task: res.Task}
	if caller.Role == domain.RoleAdmin && res.Assignee != nil {
		resp.Message = "Task assigned successfully"
		resp.AssignedTo = res.Assignee.Name
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// Update handles PUT /api/task/update/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.Update(r.Context(), caller, chi.URLParam(r, TaskIDParam), service.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate,
		Status:         req.Status,
		Priority:       req.Priority,
		AssignedUserID: req.AssignedUser,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{Message: "Task updated successfully", Task: task})
}

// Delete handles DELETE /api/task/delete/{id} and returns the removed task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.Delete(r.Context(), caller, chi.URLParam(r, TaskIDParam))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{Message: "Task deleted successfully", Task: task})
}

// List handles GET /api/task/getalltask.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.List(r.Context(), caller)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{Tasks: tasks})
}

// Search handles GET /api/task/search?status=&priority=&assignedUser=.
func (h *TaskHandler) Search(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	tasks, err := h.tasks.Search(r.Context(), caller, service.SearchTaskInput{
		Status:       q.Get("status"),
		Priority:     q.Get("priority"),
		AssignedUser: q.Get("assignedUser"),
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task search",
		"status", q.Get("status"),
		"priority", q.Get("priority"),
		"results", len(tasks))

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{Tasks: tasks})
}

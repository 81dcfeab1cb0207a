package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

// TaskFilter is an equality conjunction over task attributes. Nil fields do
// not constrain the result.
type TaskFilter struct {
	Status       *domain.TaskStatus
	Priority     *domain.TaskPriority
	AssignedUser *uuid.UUID

	// VisibleTo restricts results to tasks assigned to or created by this
	// user. It is set by the caller's authorization scope, not by clients.
	VisibleTo *uuid.UUID
}

// TaskSummary is the list projection of a task. Creator and timestamps are
// intentionally absent.
type TaskSummary struct {
	ID           uuid.UUID           `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	DueDate      time.Time           `json:"dueDate"`
	Status       domain.TaskStatus   `json:"status"`
	Priority     domain.TaskPriority `json:"priority"`
	AssignedUser uuid.UUID           `json:"assignedUser"`
}

// TaskStore persists tasks.
type TaskStore interface {
	// Create saves a new task. The task must already be valid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update applies the present fields of patch to the task and returns the
	// stored result. Absent fields are left untouched.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes the task and returns its last stored state.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns the projection of every task matching filter, most
	// recently created first. An empty result is an empty slice, not nil.
	List(ctx context.Context, filter TaskFilter) ([]TaskSummary, error)

	// WithTx returns a TaskStore bound to the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}

// Summarize projects a task into its list representation.
func Summarize(t *domain.Task) TaskSummary {
	return TaskSummary{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		DueDate:      t.DueDate,
		Status:       t.Status,
		Priority:     t.Priority,
		AssignedUser: t.AssignedUser,
	}
}

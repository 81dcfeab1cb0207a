package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the progress state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"

	DefaultTaskStatus = TaskStatusToDo
)

// TaskPriority represents how urgent a task is.
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"

	DefaultTaskPriority = TaskPriorityMedium
)

// dueDateLayouts are tried in order when parsing a due date.
var dueDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// ParseTaskStatus converts s into a TaskStatus, defaulting to "To Do" when s is empty.
func ParseTaskStatus(s string) (TaskStatus, error) {
	if s == "" {
		return DefaultTaskStatus, nil
	}
	status := TaskStatus(s)
	if !status.Valid() {
		return "", NewValidationError("status", "must be one of: To Do, In Progress, Completed", ErrInvalidTaskStatus)
	}
	return status, nil
}

// ParseTaskPriority converts s into a TaskPriority, defaulting to "Medium" when s is empty.
func ParseTaskPriority(s string) (TaskPriority, error) {
	if s == "" {
		return DefaultTaskPriority, nil
	}
	priority := TaskPriority(s)
	if !priority.Valid() {
		return "", NewValidationError("priority", "must be one of: Low, Medium, High", ErrInvalidTaskPriority)
	}
	return priority, nil
}

// ParseDueDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, NewValidationError("dueDate", "is required", nil)
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, NewValidationError("dueDate", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp", ErrInvalidFormat)
}

// Task is a unit of work created by one user and assigned to another (or the same) user.
type Task struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	DueDate      time.Time    `json:"dueDate"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	AssignedUser uuid.UUID    `json:"assignedUser"`
	CreatedBy    uuid.UUID    `json:"createdBy"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// NewTaskParams carries the fields for NewTask. Empty Status and Priority
// take their defaults.
type NewTaskParams struct {
	Title        string
	Description  string
	DueDate      time.Time
	Status       TaskStatus
	Priority     TaskPriority
	AssignedUser uuid.UUID
	CreatedBy    uuid.UUID
}

// NewTask creates a new Task with a fresh ID and timestamps.
// Returns a *ValidationError naming the first offending field.
func NewTask(p NewTaskParams) (*Task, error) {
	status := p.Status
	if status == "" {
		status = DefaultTaskStatus
	}
	priority := p.Priority
	if priority == "" {
		priority = DefaultTaskPriority
	}

	now := time.Now().UTC()
	task := &Task{
		ID:           uuid.New(),
		Title:        p.Title,
		Description:  p.Description,
		DueDate:      p.DueDate,
		Status:       status,
		Priority:     priority,
		AssignedUser: p.AssignedUser,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "is required", ErrInvalidID)
	}
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "is required", nil)
	}
	if strings.TrimSpace(t.Description) == "" {
		return NewValidationError("description", "is required", nil)
	}
	if t.DueDate.IsZero() {
		return NewValidationError("dueDate", "is required", nil)
	}
	if !t.Status.Valid() {
		return NewValidationError("status", "must be one of: To Do, In Progress, Completed", ErrInvalidTaskStatus)
	}
	if !t.Priority.Valid() {
		return NewValidationError("priority", "must be one of: Low, Medium, High", ErrInvalidTaskPriority)
	}
	if t.AssignedUser == uuid.Nil {
		return NewValidationError("assignedUser", "is required", ErrInvalidID)
	}
	if t.CreatedBy == uuid.Nil {
		return NewValidationError("createdBy", "is required", ErrInvalidID)
	}
	return nil
}

// IsAssignedTo reports whether userID is the task's assignee.
func (t *Task) IsAssignedTo(userID uuid.UUID) bool {
	return t.AssignedUser == userID
}

// IsCreatedBy reports whether userID created the task.
func (t *Task) IsCreatedBy(userID uuid.UUID) bool {
	return t.CreatedBy == userID
}

// TaskPatch holds a partial update. Nil fields are left untouched.
// CreatedBy is deliberately absent: a task's creator never changes.
type TaskPatch struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	Status       *TaskStatus
	Priority     *TaskPriority
	AssignedUser *uuid.UUID
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.Status == nil && p.Priority == nil && p.AssignedUser == nil
}

// Validate checks every field present in the patch.
func (p TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return NewValidationError("title", "cannot be empty", nil)
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return NewValidationError("description", "cannot be empty", nil)
	}
	if p.DueDate != nil && p.DueDate.IsZero() {
		return NewValidationError("dueDate", "cannot be empty", nil)
	}
	if p.Status != nil && !p.Status.Valid() {
		return NewValidationError("status", "must be one of: To Do, In Progress, Completed", ErrInvalidTaskStatus)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return NewValidationError("priority", "must be one of: Low, Medium, High", ErrInvalidTaskPriority)
	}
	if p.AssignedUser != nil && *p.AssignedUser == uuid.Nil {
		return NewValidationError("assignedUser", "cannot be empty", ErrInvalidID)
	}
	return nil
}

// Apply returns a copy of t with the patch applied and UpdatedAt refreshed.
// t itself is not modified.
func (t *Task) Apply(p TaskPatch) (*Task, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	updated := *t
	if p.Title != nil {
		updated.Title = *p.Title
	}
	if p.Description != nil {
		updated.Description = *p.Description
	}
	if p.DueDate != nil {
		updated.DueDate = p.DueDate.UTC()
	}
	if p.Status != nil {
		updated.Status = *p.Status
	}
	if p.Priority != nil {
		updated.Priority = *p.Priority
	}
	if p.AssignedUser != nil {
		updated.AssignedUser = *p.AssignedUser
	}
	updated.UpdatedAt = time.Now().UTC()

	return &updated, nil
}

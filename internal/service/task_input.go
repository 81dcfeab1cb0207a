package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// parseTaskRef parses a task id from a path. Ids that cannot name a stored
// task are reported as not found.
func parseTaskRef(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, store.ErrTaskNotFound
	}
	return id, nil
}

// parseUserRef parses a user id from a request body. Ids that cannot name a
// stored user are reported as not found.
func parseUserRef(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, store.ErrUserNotFound
	}
	return id, nil
}

// parseCreateInput checks required fields and enum values. Assignee and
// creator are left for the caller.
func parseCreateInput(in CreateTaskInput) (domain.NewTaskParams, error) {
	var p domain.NewTaskParams

	for _, f := range []struct{ name, value string }{
		{"title", in.Title},
		{"description", in.Description},
		{"dueDate", in.DueDate},
	} {
		if strings.TrimSpace(f.value) == "" {
			return p, domain.NewValidationError(f.name, "is required", nil)
		}
	}

	due, err := domain.ParseDueDate(in.DueDate)
	if err != nil {
		return p, err
	}
	status, err := domain.ParseTaskStatus(in.Status)
	if err != nil {
		return p, err
	}
	priority, err := domain.ParseTaskPriority(in.Priority)
	if err != nil {
		return p, err
	}

	p.Title = strings.TrimSpace(in.Title)
	p.Description = strings.TrimSpace(in.Description)
	p.DueDate = due
	p.Status = status
	p.Priority = priority
	return p, nil
}

// parseUpdateInput converts the present fields into a validated patch.
func parseUpdateInput(in UpdateTaskInput) (domain.TaskPatch, error) {
	var p domain.TaskPatch

	if in.Title != nil {
		v := strings.TrimSpace(*in.Title)
		p.Title = &v
	}
	if in.Description != nil {
		v := strings.TrimSpace(*in.Description)
		p.Description = &v
	}
	if in.DueDate != nil {
		due, err := domain.ParseDueDate(*in.DueDate)
		if err != nil {
			return p, err
		}
		p.DueDate = &due
	}
	if in.Status != nil {
		v := domain.TaskStatus(*in.Status)
		p.Status = &v
	}
	if in.Priority != nil {
		v := domain.TaskPriority(*in.Priority)
		p.Priority = &v
	}
	if in.AssignedUserID != nil {
		id, err := parseUserRef(*in.AssignedUserID)
		if err != nil {
			return p, err
		}
		p.AssignedUser = &id
	}

	return p, p.Validate()
}

// parseSearchInput builds a store filter. The second result is false when a
// value is outside its domain and so cannot match any task.
func parseSearchInput(in SearchTaskInput) (store.TaskFilter, bool) {
	var f store.TaskFilter
	matchable := true

	if s := strings.TrimSpace(in.Status); s != "" {
		v := domain.TaskStatus(s)
		f.Status = &v
		matchable = matchable && v.Valid()
	}
	if s := strings.TrimSpace(in.Priority); s != "" {
		v := domain.TaskPriority(s)
		f.Priority = &v
		matchable = matchable && v.Valid()
	}
	if s := strings.TrimSpace(in.AssignedUser); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			matchable = false
		} else {
			f.AssignedUser = &id
		}
	}
	return f, matchable
}

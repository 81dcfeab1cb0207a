package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service/policy"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// CreateTaskInput carries the raw fields of a create request.
type CreateTaskInput struct {
	Title          string
	Description    string
	DueDate        string
	Status         string
	Priority       string
	AssignedUserID string
}

// UpdateTaskInput carries the fields present in an update request. Nil
// means "leave unchanged".
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	DueDate        *string
	Status         *string
	Priority       *string
	AssignedUserID *string
}

// SearchTaskInput carries the optional search filters. Empty means
// unconstrained.
type SearchTaskInput struct {
	Status       string
	Priority     string
	AssignedUser string
}

// CreateTaskResult is a stored task plus the user it was assigned to.
type CreateTaskResult struct {
	Task     *domain.Task
	Assignee *domain.User
}

// TaskService implements task use cases for an authenticated caller.
type TaskService interface {
	Create(ctx context.Context, caller policy.Caller, in CreateTaskInput) (*CreateTaskResult, error)
	Update(ctx context.Context, caller policy.Caller, taskID string, in UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, caller policy.Caller, taskID string) (*domain.Task, error)
	List(ctx context.Context, caller policy.Caller) ([]store.TaskSummary, error)
	Search(ctx context.Context, caller policy.Caller, in SearchTaskInput) ([]store.TaskSummary, error)
}

// TaskServiceImpl implements TaskService.
type TaskServiceImpl struct {
	taskStore store.TaskStore
	userStore store.UserStore
	emitter   events.EventEmitter
	db        *sql.DB
	logger    *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a TaskService. emitter may be nil.
func NewTaskService(
	taskStore store.TaskStore,
	userStore store.UserStore,
	emitter events.EventEmitter,
	db *sql.DB,
	logger *slog.Logger,
) (*TaskServiceImpl, error) {
	if taskStore == nil || userStore == nil || db == nil {
		return nil, errors.New("task service: task store, user store and db are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		taskStore: taskStore,
		userStore: userStore,
		emitter:   emitter,
		db:        db,
		logger:    logger.With("component", "task_service"),
	}, nil
}

// Create implements TaskService.
func (s *TaskServiceImpl) Create(ctx context.Context, caller policy.Caller, in CreateTaskInput) (*CreateTaskResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Field requirements depend on the role, so an unknown role fails first.
	if err := policy.CheckRole(caller); err != nil {
		return nil, err
	}

	params, err := parseCreateInput(in)
	if err != nil {
		return nil, err
	}

	var requested *uuid.UUID
	if caller.Role == domain.RoleAdmin && strings.TrimSpace(in.AssignedUserID) != "" {
		id, err := parseUserRef(in.AssignedUserID)
		if err != nil {
			return nil, err
		}
		requested = &id
	}
	assigneeID, err := policy.ResolveAssignee(caller, requested)
	if err != nil {
		return nil, err
	}

	assignee, err := s.userStore.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("assignee not found", "assignee_id", assigneeID)
		}
		return nil, fmt.Errorf("failed to load assignee: %w", err)
	}

	params.AssignedUser = assigneeID
	params.CreatedBy = caller.ID
	task, err := domain.NewTask(params)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(caller, policy.OpCreate, policy.TargetOf(task)); err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	log.Info("task created",
		"task_id", task.ID,
		"created_by", task.CreatedBy,
		"assigned_user", task.AssignedUser)
	s.emit(ctx, events.TaskCreated, caller.ID, task)

	return &CreateTaskResult{Task: task, Assignee: assignee}, nil
}

// Update implements TaskService. Validation runs first, then the existence
// check, then authorization; the write happens last.
func (s *TaskServiceImpl) Update(
	ctx context.Context,
	caller policy.Caller,
	taskID string,
	in UpdateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	id, err := parseTaskRef(taskID)
	if err != nil {
		return nil, err
	}
	patch, err := parseUpdateInput(in)
	if err != nil {
		return nil, err
	}

	var updated *domain.Task
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.taskStore.WithTx(tx)

		current, err := tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.Authorize(caller, policy.OpUpdate, policy.TargetOf(current)); err != nil {
			return err
		}

		if patch.AssignedUser != nil && *patch.AssignedUser != current.AssignedUser {
			if _, err := s.userStore.WithTx(tx).GetByID(ctx, *patch.AssignedUser); err != nil {
				return fmt.Errorf("failed to load assignee: %w", err)
			}
			if err := policy.AuthorizeReassign(caller, *patch.AssignedUser); err != nil {
				return err
			}
		}

		updated, err = tasks.Update(ctx, id, patch)
		return err
	})
	if err != nil {
		logDenied(log, "update", id, caller, err)
		return nil, err
	}

	log.Info("task updated", "task_id", id, "actor_id", caller.ID)
	s.emit(ctx, events.TaskUpdated, caller.ID, updated)
	return updated, nil
}

// Delete implements TaskService and returns the removed task.
func (s *TaskServiceImpl) Delete(ctx context.Context, caller policy.Caller, taskID string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	id, err := parseTaskRef(taskID)
	if err != nil {
		return nil, err
	}

	var deleted *domain.Task
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.taskStore.WithTx(tx)

		current, err := tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.Authorize(caller, policy.OpDelete, policy.TargetOf(current)); err != nil {
			return err
		}

		deleted, err = tasks.Delete(ctx, id)
		return err
	})
	if err != nil {
		logDenied(log, "delete", id, caller, err)
		return nil, err
	}

	log.Info("task deleted", "task_id", id, "actor_id", caller.ID)
	s.emit(ctx, events.TaskDeleted, caller.ID, deleted)
	return deleted, nil
}

// List implements TaskService.
func (s *TaskServiceImpl) List(ctx context.Context, caller policy.Caller) ([]store.TaskSummary, error) {
	filter, err := policy.Scope(caller, policy.OpList, store.TaskFilter{})
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

// Search implements TaskService. Filter values that cannot match any task,
// such as an unknown status, yield an empty result rather than an error.
func (s *TaskServiceImpl) Search(ctx context.Context, caller policy.Caller, in SearchTaskInput) ([]store.TaskSummary, error) {
	filter, matchable := parseSearchInput(in)

	scoped, err := policy.Scope(caller, policy.OpSearch, filter)
	if err != nil {
		return nil, err
	}
	if !matchable {
		return []store.TaskSummary{}, nil
	}
	return s.list(ctx, scoped)
}

func (s *TaskServiceImpl) list(ctx context.Context, filter store.TaskFilter) ([]store.TaskSummary, error) {
	tasks, err := s.taskStore.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// emit publishes a lifecycle event. The write has already happened, so a
// failure is logged and otherwise ignored.
func (s *TaskServiceImpl) emit(ctx context.Context, typ events.EventType, actor uuid.UUID, task *domain.Task) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.EmitEvent(ctx, events.NewTaskEvent(typ, actor, task)); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit task event",
			"event_type", typ,
			"task_id", task.ID,
			"error", err)
	}
}

func logDenied(log *slog.Logger, op string, id uuid.UUID, caller policy.Caller, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		log.Info("task operation denied",
			"operation", op, "task_id", id, "actor_id", caller.ID, "role", caller.Role)
	case store.IsNotFoundError(err), errors.Is(err, domain.ErrValidation):
		log.Debug("task operation rejected", "operation", op, "task_id", id, "error", err)
	default:
		log.Error("task operation failed", "operation", op, "task_id", id, "error", err)
	}
}

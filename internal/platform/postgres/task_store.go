package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
)

const (
	taskColumns        = `id, title, description, due_date, status, priority, assigned_user, created_by, created_at, updated_at`
	taskSummaryColumns = `id, title, description, due_date, status, priority, assigned_user`
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgresTaskStore implements store.TaskStore.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a task store on db. A nil logger falls back
// to slog.Default().
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: constructor precondition
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// WithTx implements store.TaskStore.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// Create implements store.TaskStore.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.DueDate,
		string(task.Status),
		string(task.Priority),
		task.AssignedUser,
		task.CreatedBy,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("task references a missing user",
				slog.String("task_id", task.ID.String()),
				slog.String("assigned_user", task.AssignedUser.String()))
			return fmt.Errorf("%w: %v", store.ErrUserNotFound, err)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("assigned_user", task.AssignedUser.String()),
		slog.String("created_by", task.CreatedBy.String()))
	return nil
}

// GetByID implements store.TaskStore.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := scanTask(s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}
	return task, nil
}

// Update implements store.TaskStore. updated_at is refreshed even when the
// patch is empty.
func (s *PostgresTaskStore) Update(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	query, args := buildTaskUpdate(id, patch, time.Now().UTC())
	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		if IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrUserNotFound, err)
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	log.Info("task updated", slog.String("task_id", id.String()))
	return task, nil
}

// Delete implements store.TaskStore.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := scanTask(s.db.QueryRowContext(ctx,
		`DELETE FROM tasks WHERE id = $1 RETURNING `+taskColumns, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for delete", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return task, nil
}

// List implements store.TaskStore.
func (s *PostgresTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]store.TaskSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildTaskList(filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	summaries := []store.TaskSummary{}
	for rows.Next() {
		var ts store.TaskSummary
		var status, priority string
		if err := rows.Scan(
			&ts.ID,
			&ts.Title,
			&ts.Description,
			&ts.DueDate,
			&status,
			&priority,
			&ts.AssignedUser,
		); err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		ts.Status = domain.TaskStatus(status)
		ts.Priority = domain.TaskPriority(priority)
		summaries = append(summaries, ts)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("tasks listed", slog.Int("count", len(summaries)))
	return summaries, nil
}

// buildTaskUpdate renders an UPDATE for the fields present in patch.
func buildTaskUpdate(id uuid.UUID, patch domain.TaskPatch, now time.Time) (string, []any) {
	var sets []string
	var args []any
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.DueDate != nil {
		add("due_date", *patch.DueDate)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.Priority != nil {
		add("priority", string(*patch.Priority))
	}
	if patch.AssignedUser != nil {
		add("assigned_user", *patch.AssignedUser)
	}
	add("updated_at", now)

	args = append(args, id)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), taskColumns)
	return query, args
}

// buildTaskList renders the projection query for filter.
func buildTaskList(filter store.TaskFilter) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != nil {
		conds = append(conds, "status = "+arg(string(*filter.Status)))
	}
	if filter.Priority != nil {
		conds = append(conds, "priority = "+arg(string(*filter.Priority)))
	}
	if filter.AssignedUser != nil {
		conds = append(conds, "assigned_user = "+arg(*filter.AssignedUser))
	}
	if filter.VisibleTo != nil {
		p := arg(*filter.VisibleTo)
		conds = append(conds, fmt.Sprintf("(assigned_user = %s OR created_by = %s)", p, p))
	}

	query := `SELECT ` + taskSummaryColumns + ` FROM tasks`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	return query, args
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var status, priority string
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&status,
		&priority,
		&t.AssignedUser,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	return &t, nil
}

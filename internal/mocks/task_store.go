package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockTaskStore is a testify mock of store.TaskStore.
type TestifyMockTaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*TestifyMockTaskStore)(nil)

func (m *TestifyMockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *TestifyMockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TestifyMockTaskStore) Update(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
	args := m.Called(ctx, id, patch)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TestifyMockTaskStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TestifyMockTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]store.TaskSummary, error) {
	args := m.Called(ctx, filter)
	if tasks, ok := args.Get(0).([]store.TaskSummary); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// WithTx returns the mock itself so expectations cover transactional calls.
func (m *TestifyMockTaskStore) WithTx(*sql.Tx) store.TaskStore {
	return m
}

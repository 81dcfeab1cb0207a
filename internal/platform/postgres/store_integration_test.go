//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/phrazzld/taskboard-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, users store.UserStore, email string, role domain.Role) *domain.User {
	t.Helper()
	u, err := domain.NewUser(domain.NewUserParams{
		Name: "Test User", Age: 30, Email: email, Mobile: "555", Address: "Somewhere",
		Password: "password123", Role: role,
	})
	require.NoError(t, err)
	prepared := u.WithHashedPassword("$2a$10$integrationtesthashvalue")
	require.NoError(t, users.Create(context.Background(), prepared))
	return prepared
}

func TestUserStoreIntegration(t *testing.T) {
	tx := testdb.Tx(t, testdb.Open(t))
	users := postgres.NewPostgresUserStore(tx, nil)
	ctx := context.Background()

	email := uuid.NewString() + "@example.com"
	u := createUser(t, users, email, domain.RoleAdmin)

	got, err := users.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	dup, err := domain.NewUser(domain.NewUserParams{
		Name: "Dup", Age: 20, Email: email, Mobile: "1", Address: "x", Password: "password123",
	})
	require.NoError(t, err)
	assert.ErrorIs(t, users.Create(ctx, dup.WithHashedPassword("h")), store.ErrEmailExists)

	require.NoError(t, users.UpdatePassword(ctx, u.ID, "rotated"))
	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "rotated", got.HashedPassword)

	_, err = users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestTaskStoreIntegration(t *testing.T) {
	tx := testdb.Tx(t, testdb.Open(t))
	users := postgres.NewPostgresUserStore(tx, nil)
	tasks := postgres.NewPostgresTaskStore(tx, nil)
	ctx := context.Background()

	alice := createUser(t, users, uuid.NewString()+"@example.com", domain.RoleUser)
	bob := createUser(t, users, uuid.NewString()+"@example.com", domain.RoleUser)

	own, err := domain.NewTask(domain.NewTaskParams{
		Title: "Own", Description: "d", DueDate: time.Now().UTC().Truncate(time.Second),
		AssignedUser: alice.ID, CreatedBy: alice.ID,
	})
	require.NoError(t, err)
	require.NoError(t, tasks.Create(ctx, own))

	other, err := domain.NewTask(domain.NewTaskParams{
		Title: "Other", Description: "d", DueDate: time.Now().UTC().Truncate(time.Second),
		Priority: domain.TaskPriorityHigh, AssignedUser: bob.ID, CreatedBy: bob.ID,
	})
	require.NoError(t, err)
	require.NoError(t, tasks.Create(ctx, other))

	visible, err := tasks.List(ctx, store.TaskFilter{VisibleTo: &alice.ID})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, own.ID, visible[0].ID)

	high := domain.TaskPriorityHigh
	filtered, err := tasks.List(ctx, store.TaskFilter{Priority: &high, AssignedUser: &bob.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, other.ID, filtered[0].ID)

	status := domain.TaskStatusInProgress
	updated, err := tasks.Update(ctx, own.ID, domain.TaskPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
	assert.Equal(t, "Own", updated.Title)

	deleted, err := tasks.Delete(ctx, own.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, deleted.Status)

	_, err = tasks.GetByID(ctx, own.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	_, err = tasks.Delete(ctx, own.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestRunInTransactionRollsBackOnError(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	email := uuid.NewString() + "@example.com"

	errBoom := errors.New("boom")
	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		createUser(t, postgres.NewPostgresUserStore(tx, nil), email, domain.RoleUser)
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		_, err := postgres.NewPostgresUserStore(tx, nil).GetByEmail(ctx, email)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

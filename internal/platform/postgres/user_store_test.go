package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumnNames = []string{
	"id", "name", "age", "email", "mobile", "address",
	"hashed_password", "role", "created_at", "updated_at",
}

func newUserStoreMock(t *testing.T) (*PostgresUserStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresUserStore(db, nil), mock
}

func sampleUser() *domain.User {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:             uuid.New(),
		Name:           "Ada",
		Age:            36,
		Email:          "ada@example.com",
		Mobile:         "555-0100",
		Address:        "London",
		HashedPassword: "$2a$10$0123456789012345678901",
		Role:           domain.RoleAdmin,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestPostgresUserStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("inserts prepared user", func(t *testing.T) {
		s, mock := newUserStoreMock(t)
		u := sampleUser()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs(u.ID, u.Name, u.Age, u.Email, u.Mobile, u.Address, u.HashedPassword, "admin", u.CreatedAt, u.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), u))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("refuses plaintext password", func(t *testing.T) {
		s, mock := newUserStoreMock(t)
		u := sampleUser()
		u.Password = "hunter22"

		err := s.Create(context.Background(), u)

		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		s, mock := newUserStoreMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(pgError(uniqueViolationCode))

		err := s.Create(context.Background(), sampleUser())

		assert.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestPostgresUserStore_Get(t *testing.T) {
	t.Parallel()

	u := sampleUser()
	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(userColumnNames).AddRow(
			u.ID.String(), u.Name, int64(u.Age), u.Email, u.Mobile, u.Address,
			u.HashedPassword, "admin", u.CreatedAt, u.UpdatedAt)
	}

	t.Run("by id", func(t *testing.T) {
		s, mock := newUserStoreMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
			WithArgs(u.ID).
			WillReturnRows(row())

		got, err := s.GetByID(context.Background(), u.ID)

		require.NoError(t, err)
		assert.Equal(t, u, got)
		assert.Empty(t, got.Password)
	})

	t.Run("by email is case-insensitive", func(t *testing.T) {
		s, mock := newUserStoreMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE LOWER(email) = $1")).
			WithArgs("ada@example.com").
			WillReturnRows(row())

		got, err := s.GetByEmail(context.Background(), " ADA@example.com")

		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, got.Role)
	})

	t.Run("missing user", func(t *testing.T) {
		s, mock := newUserStoreMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM users")).WillReturnError(sql.ErrNoRows)

		_, err := s.GetByEmail(context.Background(), "nobody@example.com")

		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestPostgresUserStore_UpdatePassword(t *testing.T) {
	t.Parallel()

	t.Run("updates hash", func(t *testing.T) {
		s, mock := newUserStoreMock(t)
		id := uuid.New()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET hashed_password = $1")).
			WithArgs("newhash", sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.UpdatePassword(context.Background(), id, "newhash"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user", func(t *testing.T) {
		s, mock := newUserStoreMock(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.UpdatePassword(context.Background(), uuid.New(), "newhash")

		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("empty hash", func(t *testing.T) {
		s, _ := newUserStoreMock(t)
		err := s.UpdatePassword(context.Background(), uuid.New(), "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

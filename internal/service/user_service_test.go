package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/mocks"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userFixture struct {
	svc      *UserServiceImpl
	users    *mocks.TestifyMockUserStore
	jwt      *mocks.MockJWTService
	hasher   *mocks.MockPasswordHasher
	verifier *mocks.MockPasswordVerifier
	sql      sqlmock.Sqlmock
}

func newUserFixture(t *testing.T, allowAdmin bool) *userFixture {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &userFixture{
		users:    &mocks.TestifyMockUserStore{},
		jwt:      &mocks.MockJWTService{Token: "access", RefreshToken: "refresh", Lifetime: time.Hour},
		hasher:   &mocks.MockPasswordHasher{},
		verifier: &mocks.MockPasswordVerifier{ShouldSucceed: true},
		sql:      sqlMock,
	}
	f.svc, err = NewUserService(UserServiceDeps{
		Users:            f.users,
		JWT:              f.jwt,
		Hasher:           f.hasher,
		Verifier:         f.verifier,
		DB:               db,
		AllowAdminSignup: allowAdmin,
	})
	require.NoError(t, err)
	return f
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Name:     "Ada",
		Age:      36,
		Email:    "Ada@Example.com",
		Mobile:   "555-0100",
		Address:  "12 Analytical Way",
		Password: "correct horse",
	}
}

func TestNewUserService_RequiresDependencies(t *testing.T) {
	_, err := NewUserService(UserServiceDeps{})
	assert.Error(t, err)
}

func TestUserService_Register(t *testing.T) {
	f := newUserFixture(t, true)
	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Password == "" && u.HashedPassword == "hashed:correct horse" && u.Email == "ada@example.com"
	})).Return(nil)

	user, err := f.svc.Register(context.Background(), validRegistration())

	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Empty(t, user.Password)
	assert.Equal(t, []string{"correct horse"}, f.hasher.HashCalls)
	f.users.AssertExpectations(t)
}

func TestUserService_Register_Failures(t *testing.T) {
	t.Run("validation names the field", func(t *testing.T) {
		f := newUserFixture(t, true)
		in := validRegistration()
		in.Mobile = ""

		_, err := f.svc.Register(context.Background(), in)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "mobile", verr.Field)
		assert.Empty(t, f.hasher.HashCalls)
	})

	t.Run("short password", func(t *testing.T) {
		f := newUserFixture(t, true)
		in := validRegistration()
		in.Password = "short"

		_, err := f.svc.Register(context.Background(), in)

		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})

	t.Run("unknown role", func(t *testing.T) {
		f := newUserFixture(t, true)
		in := validRegistration()
		in.Role = "root"

		_, err := f.svc.Register(context.Background(), in)

		assert.ErrorIs(t, err, domain.ErrInvalidRole)
	})

	t.Run("admin signup disabled", func(t *testing.T) {
		f := newUserFixture(t, false)
		in := validRegistration()
		in.Role = "admin"

		_, err := f.svc.Register(context.Background(), in)

		assert.ErrorIs(t, err, ErrAdminSignupDisabled)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newUserFixture(t, true)
		f.users.On("Create", mock.Anything, mock.Anything).Return(store.ErrEmailExists)

		_, err := f.svc.Register(context.Background(), validRegistration())

		assert.ErrorIs(t, err, store.ErrDuplicate)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	stored := testUser(uuid.New(), domain.RoleAdmin)

	t.Run("success", func(t *testing.T) {
		f := newUserFixture(t, true)
		f.users.On("GetByEmail", mock.Anything, stored.Email).Return(stored, nil)

		user, err := f.svc.Authenticate(context.Background(), stored.Email, "whatever1")

		require.NoError(t, err)
		assert.Equal(t, stored.ID, user.ID)
		assert.Equal(t, 1, f.verifier.CompareCallCount)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newUserFixture(t, true)
		f.users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, store.ErrUserNotFound)

		_, err := f.svc.Authenticate(context.Background(), "nobody@example.com", "whatever1")

		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Zero(t, f.verifier.CompareCallCount)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newUserFixture(t, true)
		f.verifier.ShouldSucceed = false
		f.users.On("GetByEmail", mock.Anything, stored.Email).Return(stored, nil)

		_, err := f.svc.Authenticate(context.Background(), stored.Email, "wrong")

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestUserService_IssueTokens(t *testing.T) {
	f := newUserFixture(t, true)
	user := testUser(uuid.New(), domain.RoleAdmin)
	var gotRole domain.Role
	f.jwt.GenerateTokenFn = func(_ context.Context, _ uuid.UUID, role domain.Role) (string, error) {
		gotRole = role
		return "access", nil
	}

	pair, err := f.svc.IssueTokens(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, gotRole)
	assert.Equal(t, "access", pair.AccessToken)
	assert.Equal(t, "refresh", pair.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), pair.ExpiresAt, time.Minute)
}

func TestUserService_Refresh(t *testing.T) {
	user := testUser(uuid.New(), domain.RoleUser)

	t.Run("reads role from store", func(t *testing.T) {
		f := newUserFixture(t, true)
		promoted := *user
		promoted.Role = domain.RoleAdmin
		f.jwt.Claims = &auth.Claims{UserID: user.ID, TokenType: auth.TokenTypeRefresh}
		f.users.On("GetByID", mock.Anything, user.ID).Return(&promoted, nil)

		pair, err := f.svc.Refresh(context.Background(), "refresh")

		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, pair.Role)
	})

	t.Run("deleted user", func(t *testing.T) {
		f := newUserFixture(t, true)
		f.jwt.Claims = &auth.Claims{UserID: user.ID, TokenType: auth.TokenTypeRefresh}
		f.users.On("GetByID", mock.Anything, user.ID).Return(nil, store.ErrUserNotFound)

		_, err := f.svc.Refresh(context.Background(), "refresh")

		assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	})

	t.Run("invalid token", func(t *testing.T) {
		f := newUserFixture(t, true)
		f.jwt.ValidateErr = auth.ErrExpiredRefreshToken

		_, err := f.svc.Refresh(context.Background(), "refresh")

		assert.ErrorIs(t, err, auth.ErrExpiredRefreshToken)
		f.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	user := testUser(uuid.New(), domain.RoleUser)

	t.Run("success", func(t *testing.T) {
		f := newUserFixture(t, true)
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		f.users.On("UpdatePassword", mock.Anything, user.ID, "hashed:new password").Return(nil)
		f.sql.ExpectBegin()
		f.sql.ExpectCommit()

		err := f.svc.ChangePassword(context.Background(), user.ID, "old password", "new password")

		require.NoError(t, err)
		f.users.AssertExpectations(t)
		assert.NoError(t, f.sql.ExpectationsWereMet())
	})

	t.Run("wrong current password", func(t *testing.T) {
		f := newUserFixture(t, true)
		f.verifier.ShouldSucceed = false
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		f.sql.ExpectBegin()
		f.sql.ExpectRollback()

		err := f.svc.ChangePassword(context.Background(), user.ID, "bad", "new password")

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.Empty(t, f.hasher.HashCalls)
		f.users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
		assert.NoError(t, f.sql.ExpectationsWereMet())
	})

	t.Run("new password too short", func(t *testing.T) {
		f := newUserFixture(t, true)

		err := f.svc.ChangePassword(context.Background(), user.ID, "old password", "short")

		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.NoError(t, f.sql.ExpectationsWereMet())
	})

	t.Run("hash failure rolls back", func(t *testing.T) {
		f := newUserFixture(t, true)
		f.hasher.Err = errors.New("entropy exhausted")
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		f.sql.ExpectBegin()
		f.sql.ExpectRollback()

		err := f.svc.ChangePassword(context.Background(), user.ID, "old password", "new password")

		assert.ErrorIs(t, err, f.hasher.Err)
		assert.NoError(t, f.sql.ExpectationsWereMet())
	})
}

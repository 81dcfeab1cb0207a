package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// RegisterInput carries the fields of a signup request.
type RegisterInput struct {
	Name     string
	Age      int
	Email    string
	Mobile   string
	Address  string
	Password string
	Role     string
}

// TokenPair is a freshly issued session.
type TokenPair struct {
	UserID       uuid.UUID
	Role         domain.Role
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// UserService manages accounts and sessions.
type UserService interface {
	// Register validates input, hashes the password and stores a new user.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)

	// Authenticate checks credentials. It returns store.ErrUserNotFound for
	// an unknown email and auth.ErrInvalidCredentials for a wrong password.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// IssueTokens creates an access/refresh token pair for user.
	IssueTokens(ctx context.Context, user *domain.User) (*TokenPair, error)

	// Refresh exchanges a refresh token for a new pair. The role is re-read
	// from the store.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// GetProfile returns the stored user.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// ChangePassword verifies current and stores the hash of next.
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	hasher           auth.PasswordHasher
	verifier         auth.PasswordVerifier
	db               *sql.DB
	allowAdminSignup bool
	logger           *slog.Logger
}

// UserServiceDeps groups the collaborators of NewUserService.
type UserServiceDeps struct {
	Users            store.UserStore
	JWT              auth.JWTService
	Hasher           auth.PasswordHasher
	Verifier         auth.PasswordVerifier
	DB               *sql.DB
	AllowAdminSignup bool
	Logger           *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(deps UserServiceDeps) (*UserServiceImpl, error) {
	if deps.Users == nil || deps.JWT == nil || deps.Hasher == nil || deps.Verifier == nil || deps.DB == nil {
		return nil, errors.New("user service: users, jwt, hasher, verifier and db are required")
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &UserServiceImpl{
		userStore:        deps.Users,
		jwtService:       deps.JWT,
		hasher:           deps.Hasher,
		verifier:         deps.Verifier,
		db:               deps.DB,
		allowAdminSignup: deps.AllowAdminSignup,
		logger:           log.With("component", "user_service"),
	}, nil
}

var _ UserService = (*UserServiceImpl)(nil)

// Register implements UserService.
func (s *UserServiceImpl) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	if role == domain.RoleAdmin && !s.allowAdminSignup {
		log.Warn("rejected admin signup")
		return nil, ErrAdminSignupDisabled
	}

	user, err := domain.NewUser(domain.NewUserParams{
		Name:     in.Name,
		Age:      in.Age,
		Email:    in.Email,
		Mobile:   in.Mobile,
		Address:  in.Address,
		Password: in.Password,
		Role:     role,
	})
	if err != nil {
		return nil, err
	}

	prepared, err := auth.PrepareForWrite(s.hasher, user)
	if err != nil {
		return nil, err
	}

	if err := s.userStore.Create(ctx, prepared); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("signup with existing email")
		} else {
			log.Error("failed to store new user", "error", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user registered", "user_id", prepared.ID, "role", prepared.Role)
	return prepared, nil
}

// Authenticate implements UserService.
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Info("login attempt for unknown email")
		} else {
			log.Error("failed to look up user for login", "error", err)
		}
		return nil, err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Info("login attempt with wrong password", "user_id", user.ID)
			return nil, auth.ErrInvalidCredentials
		}
		log.Error("password comparison failed", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return user, nil
}

// IssueTokens implements UserService.
func (s *UserServiceImpl) IssueTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, err := s.jwtService.GenerateToken(ctx, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwtService.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &TokenPair{
		UserID:       user.ID,
		Role:         user.Role,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().UTC().Add(s.jwtService.AccessTokenLifetime()),
	}, nil
}

// Refresh implements UserService.
func (s *UserServiceImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	claims, err := s.jwtService.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Warn("refresh token for deleted user", "user_id", claims.UserID)
			return nil, auth.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to load user for refresh: %w", err)
	}

	return s.IssueTokens(ctx, user)
}

// GetProfile implements UserService.
func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// ChangePassword implements UserService. The lookup, check and write run in
// one transaction.
func (s *UserServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidatePassword(next); err != nil {
		return err
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)

		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := s.verifier.Compare(user.HashedPassword, current); err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return auth.ErrInvalidCredentials
			}
			return fmt.Errorf("failed to verify password: %w", err)
		}

		candidate := *user
		candidate.Password = next
		prepared, err := auth.PrepareForWrite(s.hasher, &candidate)
		if err != nil {
			return err
		}
		return users.UpdatePassword(ctx, userID, prepared.HashedPassword)
	})
	if err != nil {
		log.Info("password change failed", "user_id", userID, "error", err)
		return err
	}

	log.Info("password changed", "user_id", userID)
	return nil
}

package postgres

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
	"github.com/phrazzld/taskboard-api/internal/store"
)

const userColumns = `id, name, age, email, mobile, address, hashed_password, role, created_at, updated_at`

// PostgresUserStore implements store.UserStore.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.UserStore = (*PostgresUserStore)(nil)

// NewPostgresUserStore creates a user store on db. A nil logger falls back
// to slog.Default().
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		// ALLOW-PANIC: constructor precondition
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// WithTx implements store.UserStore.
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore. The user must carry a hash and no
// plaintext password.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.Password != "" {
		return fmt.Errorf("%w: plaintext password must be hashed before storage", store.ErrInvalidEntity)
	}
	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Age,
		domain.NormalizeEmail(user.Email),
		user.Mobile,
		user.Address,
		user.HashedPassword,
		string(user.Role),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("attempt to create user with existing email",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return nil
}

// GetByID implements store.UserStore.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.getOne(ctx, query, id, slog.String("user_id", id.String()))
}

// GetByEmail implements store.UserStore. The lookup is case-insensitive.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = $1`
	// The address itself is not logged.
	return s.getOne(ctx, query, domain.NormalizeEmail(email), slog.String("lookup", "email"))
}

func (s *PostgresUserStore) getOne(ctx context.Context, query string, arg any, attr slog.Attr) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", attr)
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()), attr)
		return nil, MapError(err)
	}
	return user, nil
}

// UpdatePassword implements store.UserStore.
func (s *PostgresUserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if hashedPassword == "" {
		return domain.NewValidationError("password", "hash is required", domain.ErrEmptyHashedPassword)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET hashed_password = $1, updated_at = $2 WHERE id = $3`,
		hashedPassword, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update password",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}
	if err := checkRowsAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Info("user password updated", slog.String("user_id", id.String()))
	return nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var role string
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Age,
		&u.Email,
		&u.Mobile,
		&u.Address,
		&u.HashedPassword,
		&role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

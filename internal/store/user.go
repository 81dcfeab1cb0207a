package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

// UserStore persists user accounts.
//
// Implementations never hash passwords themselves: callers hand over a user
// that has already been through the credential preparation step, so the
// record carries HashedPassword and no plaintext.
type UserStore interface {
	// Create saves a new user.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdatePassword replaces the stored credential hash.
	// Returns ErrUserNotFound if the user does not exist.
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error

	// WithTx returns a UserStore bound to the given transaction.
	WithTx(tx *sql.Tx) UserStore
}

package auth

import (
	"fmt"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used for stored credentials.
const DefaultBcryptCost = 10

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier interface {
	// Compare returns nil when password matches hashedPassword.
	Compare(hashedPassword, password string) error
}

// PasswordHasher produces a salted hash of a plaintext password.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements PasswordVerifier. A mismatch is reported as
// ErrInvalidCredentials; a malformed hash is returned as-is.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err == bcrypt.ErrMismatchedHashAndPassword {
		return ErrInvalidCredentials
	}
	return err
}

// BcryptHasher implements PasswordHasher with a fixed cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, or DefaultBcryptCost when
// cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash implements PasswordHasher.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// PrepareForWrite validates the user's plaintext password and returns a copy
// carrying its hash instead. It is the only place credentials are hashed, so
// it runs on account creation and explicit password changes and nowhere else.
func PrepareForWrite(hasher PasswordHasher, user *domain.User) (*domain.User, error) {
	if err := domain.ValidatePassword(user.Password); err != nil {
		return nil, err
	}
	hash, err := hasher.Hash(user.Password)
	if err != nil {
		return nil, err
	}
	return user.WithHashedPassword(hash), nil
}

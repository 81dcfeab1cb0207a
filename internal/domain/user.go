package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrInvalidAge          = errors.New("age must be a positive number")
	ErrEmptyMobile         = errors.New("mobile cannot be empty")
	ErrEmptyAddress        = errors.New("address cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordLength = 72
)

// Role determines which records a user may see and modify.
type Role string

// Known roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole converts s into a Role. An empty string yields RoleUser.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleUser, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", NewValidationError("role", "must be one of: user, admin", ErrInvalidRole)
	}
	return r, nil
}

// User represents a registered user of the task board.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Age            int       `json:"age"`
	Email          string    `json:"email"`
	Mobile         string    `json:"mobile"`
	Address        string    `json:"address"`
	Password       string    `json:"-"` // Plaintext, only between request decoding and hashing
	HashedPassword string    `json:"-"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewUserParams carries the registration fields for NewUser.
type NewUserParams struct {
	Name     string
	Age      int
	Email    string
	Mobile   string
	Address  string
	Password string
	Role     Role
}

// NewUser creates a new User from registration data.
// It generates a new UUID for the user ID and sets the creation/update timestamps.
// Returns an error if validation fails.
//
// NOTE: the returned user still carries the plaintext password. The caller
// must run it through a hashing step (see WithHashedPassword) before storage.
func NewUser(p NewUserParams) (*User, error) {
	role := p.Role
	if role == "" {
		role = RoleUser
	}
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      p.Name,
		Age:       p.Age,
		Email:     NormalizeEmail(p.Email),
		Mobile:    p.Mobile,
		Address:   p.Address,
		Password:  p.Password,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the user's fields in declaration order and returns a
// *ValidationError for the first one that fails. The wrapped cause is one of
// the sentinels above, so errors.Is works against either.
func (u *User) Validate() error {
	switch {
	case u.ID == uuid.Nil:
		return NewValidationError("id", "is required", ErrEmptyUserID)
	case strings.TrimSpace(u.Name) == "":
		return NewValidationError("name", "is required", ErrEmptyName)
	case u.Age <= 0:
		return NewValidationError("age", "must be a positive number", ErrInvalidAge)
	case u.Email == "":
		return NewValidationError("email", "is required", ErrEmptyEmail)
	case !validateEmailFormat(u.Email):
		return NewValidationError("email", "is not a valid address", ErrInvalidEmail)
	case strings.TrimSpace(u.Mobile) == "":
		return NewValidationError("mobile", "is required", ErrEmptyMobile)
	case strings.TrimSpace(u.Address) == "":
		return NewValidationError("address", "is required", ErrEmptyAddress)
	case !u.Role.Valid():
		return NewValidationError("role", "must be one of: user, admin", ErrInvalidRole)
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}
	// Users loaded from the store only carry the hash.
	if u.HashedPassword == "" {
		return NewValidationError("password", "is required", ErrEmptyPassword)
	}

	return nil
}

// ValidatePassword checks plaintext length bounds.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return NewValidationError("password", "is required", ErrEmptyPassword)
	case len(password) < minPasswordLength:
		return NewValidationError("password", "must be at least 8 characters", ErrPasswordTooShort)
	case len(password) > maxPasswordLength:
		return NewValidationError("password", "must be at most 72 characters", ErrPasswordTooLong)
	}
	return nil
}

// WithHashedPassword returns a copy of u ready to be written: the hash is set
// and the plaintext cleared. u itself is not modified.
func (u *User) WithHashedPassword(hash string) *User {
	prepared := *u
	prepared.HashedPassword = hash
	prepared.Password = ""
	prepared.UpdatedAt = time.Now().UTC()
	return &prepared
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			atIndex = i
			break
		}
	}

	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domainPart := email[atIndex+1:]
	if len(domainPart) < 3 { // minimum would be "a.b"
		return false
	}

	dotIndex := -1
	for i, char := range domainPart {
		if char == '.' {
			dotIndex = i
			break
		}
	}

	return dotIndex > 0 && dotIndex != len(domainPart)-1
}

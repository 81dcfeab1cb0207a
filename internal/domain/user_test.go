package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func validUserParams() NewUserParams {
	return NewUserParams{
		Name:     "Ada Lovelace",
		Age:      36,
		Email:    "ada@example.com",
		Mobile:   "555-0100",
		Address:  "12 St James's Square",
		Password: "analytical-engine",
	}
}

func TestNewUser(t *testing.T) {
	user, err := NewUser(validUserParams())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if user.Role != RoleUser {
		t.Errorf("Expected default role %q, got %q", RoleUser, user.Role)
	}
	if user.Password != "analytical-engine" {
		t.Error("Expected plaintext password to be kept until hashing")
	}
	if user.HashedPassword != "" {
		t.Error("Expected no hash before the hashing step")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}
}

func TestNewUserValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *NewUserParams)
		wantErr error
	}{
		{"empty name", func(p *NewUserParams) { p.Name = "" }, ErrEmptyName},
		{"zero age", func(p *NewUserParams) { p.Age = 0 }, ErrInvalidAge},
		{"empty email", func(p *NewUserParams) { p.Email = "" }, ErrEmptyEmail},
		{"invalid email", func(p *NewUserParams) { p.Email = "invalidemail" }, ErrInvalidEmail},
		{"empty mobile", func(p *NewUserParams) { p.Mobile = "" }, ErrEmptyMobile},
		{"empty address", func(p *NewUserParams) { p.Address = "" }, ErrEmptyAddress},
		{"unknown role", func(p *NewUserParams) { p.Role = "superuser" }, ErrInvalidRole},
		{"empty password", func(p *NewUserParams) { p.Password = "" }, ErrEmptyPassword},
		{"short password", func(p *NewUserParams) { p.Password = "short" }, ErrPasswordTooShort},
		{"long password", func(p *NewUserParams) { p.Password = strings.Repeat("x", 73) }, ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validUserParams()
			tt.mutate(&p)
			_, err := NewUser(p)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	stored := User{
		ID:             uuid.New(),
		Name:           "Grace",
		Age:            40,
		Email:          "grace@example.com",
		Mobile:         "555-0101",
		Address:        "Arlington",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		Role:           RoleAdmin,
	}
	if err := stored.Validate(); err != nil {
		t.Errorf("Expected stored user with hash to be valid, got %v", err)
	}

	stored.HashedPassword = ""
	if err := stored.Validate(); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("Expected %v, got %v", ErrEmptyPassword, err)
	}
}

func TestWithHashedPassword(t *testing.T) {
	user, err := NewUser(validUserParams())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	prepared := user.WithHashedPassword("hash")

	if prepared == user {
		t.Fatal("Expected a new record, got the same pointer")
	}
	if prepared.HashedPassword != "hash" || prepared.Password != "" {
		t.Errorf("Expected hash set and plaintext cleared, got hash=%q password=%q",
			prepared.HashedPassword, prepared.Password)
	}
	if user.Password == "" || user.HashedPassword != "" {
		t.Error("Expected original record to be left untouched")
	}
}

func TestUserValidationErrorsNameTheField(t *testing.T) {
	p := validUserParams()
	p.Mobile = " "
	_, err := NewUser(p)

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
	if vErr.Field != "mobile" {
		t.Errorf("Expected field mobile, got %q", vErr.Field)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("Expected error to match ErrValidation")
	}
}

func TestNewUserNormalizesEmail(t *testing.T) {
	p := validUserParams()
	p.Email = "  Ada@Example.COM "
	user, err := NewUser(p)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("Expected normalized email, got %q", user.Email)
	}
}

func TestParseRole(t *testing.T) {
	if r, err := ParseRole(""); err != nil || r != RoleUser {
		t.Errorf("Expected empty role to default to user, got %q, %v", r, err)
	}
	if r, err := ParseRole("admin"); err != nil || r != RoleAdmin {
		t.Errorf("Expected admin, got %q, %v", r, err)
	}
	_, err := ParseRole("root")
	if !errors.Is(err, ErrValidation) || !errors.Is(err, ErrInvalidRole) {
		t.Errorf("Expected validation error wrapping ErrInvalidRole, got %v", err)
	}
}

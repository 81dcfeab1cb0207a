package mocks

import (
	"github.com/phrazzld/taskboard-api/internal/service/auth"
)

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// ShouldSucceed determines whether the password comparison should succeed
	ShouldSucceed bool

	// CompareFn allows for custom comparison logic in tests
	CompareFn func(hashedPassword, password string) error

	CompareCallCount int
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare fails with auth.ErrInvalidCredentials unless ShouldSucceed is set.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return auth.ErrInvalidCredentials
}

// MockPasswordHasher implements auth.PasswordHasher with a readable,
// non-cryptographic transform.
type MockPasswordHasher struct {
	Err       error
	HashCalls []string
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash returns "hashed:" + password, or Err when set.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	m.HashCalls = append(m.HashCalls, password)
	if m.Err != nil {
		return "", m.Err
	}
	return "hashed:" + password, nil
}

package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every "row does not exist" failure.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate matches unique-constraint violations.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when the database rejects a row
	// (foreign key, check or not-null constraint).
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed wraps begin/commit failures in RunInTransaction.
	ErrTransactionFailed = errors.New("transaction failed")

	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrEmailExists is returned when a user's email is already taken,
	// compared case-insensitively.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError reports whether err is ErrNotFound or one of its entity forms.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is ErrDuplicate or one of its entity forms.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

package service

import (
	"fmt"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// Service errors. Each wraps the category the API layer maps on.
var (
	// ErrAdminSignupDisabled is returned when self-registration as admin is
	// switched off in configuration.
	ErrAdminSignupDisabled = fmt.Errorf("%w: admin signup is disabled", domain.ErrUnauthorized)
)

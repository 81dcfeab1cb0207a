package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusInternalServerError},
		{domain.NewValidationError("title", "is required", nil), http.StatusBadRequest},
		{store.ErrInvalidEntity, http.StatusBadRequest},
		{store.ErrTaskNotFound, http.StatusNotFound},
		{fmt.Errorf("failed to load assignee: %w", store.ErrUserNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: denied", domain.ErrUnauthorized), http.StatusForbidden},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{auth.ErrExpiredToken, http.StatusUnauthorized},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{store.ErrEmailExists, http.StatusConflict},
		{store.ErrTransactionFailed, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err), "%v", tt.err)
	}
}

func TestGetSafeErrorMessage_DoesNotLeak(t *testing.T) {
	err := fmt.Errorf("failed to list tasks: %w", errors.New(`pq: relation "tasks" does not exist`))

	msg := GetSafeErrorMessage(err)

	assert.Equal(t, "An unexpected error occurred", msg)
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestGetSafeErrorMessage_NamesValidationField(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", domain.NewValidationError("dueDate", "is required", nil))

	assert.Equal(t, "dueDate is required", GetSafeErrorMessage(err))
}

package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// SignupRequest is the body of POST /api/user/signup.
type SignupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Age      int    `json:"age"      validate:"gt=0"`
	Email    string `json:"email"    validate:"required,email"`
	Mobile   string `json:"mobile"   validate:"required"`
	Address  string `json:"address"  validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

// LoginRequest is the body of POST /api/user/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest is the body of POST /api/user/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ChangePasswordRequest is the body of PUT /api/user/profile/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8,max=72"`
}

// AuthResponse carries a freshly issued session.
type AuthResponse struct {
	UserID       uuid.UUID   `json:"userId"`
	Role         domain.Role `json:"role"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresAt    string      `json:"expiresAt"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateTaskRequest is the body of POST /api/task. AssignedUserID is only
// read for admins.
type CreateTaskRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	DueDate        string `json:"dueDate"`
	Status         string `json:"status"`
	Priority       string `json:"priority"`
	AssignedUserID string `json:"assignedUserId"`
}

// UpdateTaskRequest is the body of PUT /api/task/update/{id}. Absent fields
// are left unchanged.
type UpdateTaskRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	DueDate      *string `json:"dueDate"`
	Status       *string `json:"status"`
	Priority     *string `json:"priority"`
	AssignedUser *string `json:"assignedUser"`
}

// TaskResponse wraps a single task. AssignedTo is the assignee's name and is
// set on create.
type TaskResponse struct {
	Message    string       `json:"message"`
	Task       *domain.Task `json:"task"`
	AssignedTo string       `json:"assignedTo,omitempty"`
}

// TaskListResponse wraps list and search results.
type TaskListResponse struct {
	Tasks []store.TaskSummary `json:"tasks"`
}

func formatExpiry(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

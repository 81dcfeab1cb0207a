package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// UserHandler serves the /api/user routes.
type UserHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users service.UserService, logger *slog.Logger) *UserHandler {
	if users == nil {
		// ALLOW-PANIC: constructor precondition
		panic("users cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{users: users, logger: logger.With("component", "user_handler")}
}

// Signup handles POST /api/user/signup.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Age:      req.Age,
		Email:    req.Email,
		Mobile:   req.Mobile,
		Address:  req.Address,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	pair, err := h.users.IssueTokens(r.Context(), user)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, authResponse(pair))
}

// Login handles POST /api/user/login. Unknown emails and wrong passwords
// get the same reply.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidCredentials) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials", err,
				shared.WithElevatedLogLevel())
			return
		}
		HandleAPIError(w, r, err)
		return
	}

	pair, err := h.users.IssueTokens(r.Context(), user)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, authResponse(pair))
}

// Refresh handles POST /api/user/refresh.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pair, err := h.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, authResponse(pair))
}

// Profile handles GET /api/user/profile.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetProfile(r.Context(), caller.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// ChangePassword handles PUT /api/user/profile/password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.users.ChangePassword(r.Context(), caller.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("password updated", "user_id", caller.ID)
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Password updated"})
}

func authResponse(p *service.TokenPair) AuthResponse {
	return AuthResponse{
		UserID:       p.UserID,
		Role:         p.Role,
		Token:        p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresAt:    formatExpiry(p.ExpiresAt),
	}
}

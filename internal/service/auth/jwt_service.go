package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTService issues and verifies signed session tokens.
//
// Access tokens carry the user's role so requests can be authorized without
// a store lookup. Refresh tokens carry only the user ID; the role is re-read
// when a refresh is exchanged.
type JWTService interface {
	// GenerateToken creates a signed access token for userID with role.
	GenerateToken(ctx context.Context, userID uuid.UUID, role domain.Role) (string, error)

	// ValidateToken verifies an access token and returns its claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid, ErrWrongTokenType or
	// ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed refresh token for userID.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken verifies a refresh token and returns its claims.
	// Returns ErrExpiredRefreshToken, ErrWrongTokenType or
	// ErrInvalidRefreshToken on failure.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)

	// AccessTokenLifetime reports how long issued access tokens stay valid.
	AccessTokenLifetime() time.Duration
}

// Claims is the verified content of a token.
type Claims struct {
	UserID    uuid.UUID   `json:"uid,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
	TokenType string      `json:"type,omitempty"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

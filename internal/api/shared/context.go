package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

// ContextKey namespaces request-scoped values set by middleware.
type ContextKey string

const (
	// UserIDContextKey holds the authenticated caller's uuid.UUID.
	UserIDContextKey ContextKey = "userID"

	// RoleContextKey holds the authenticated caller's domain.Role.
	RoleContextKey ContextKey = "role"

	// TraceIDKey holds the request's trace ID.
	TraceIDKey ContextKey = "traceID"

	// TraceIDHeader carries a trace ID in and out of the service.
	TraceIDHeader = "X-Trace-ID"

	maxTraceIDLength = 64
)

// WithCaller stores the authenticated identity in ctx.
func WithCaller(ctx context.Context, userID uuid.UUID, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, UserIDContextKey, userID)
	return context.WithValue(ctx, RoleContextKey, role)
}

// CallerFromContext returns the identity stored by WithCaller.
func CallerFromContext(ctx context.Context) (uuid.UUID, domain.Role, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, "", false
	}
	role, _ := ctx.Value(RoleContextKey).(domain.Role)
	return userID, role, true
}

// WithTraceID stores traceID in ctx, generating one when traceID is empty or
// unusable.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if !validTraceID(traceID) {
		traceID = NewTraceID()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID returns the trace ID in ctx, or "".
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// NewTraceID returns 32 lowercase hex characters.
func NewTraceID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		// Time-based IDs need no entropy source.
		id = uuid.Must(uuid.NewUUID())
	}
	return strings.ReplaceAll(id.String(), "-", "")
}

// validTraceID accepts short tokens of letters, digits, '-' and '_' so an
// inbound header cannot inject into logs.
func validTraceID(s string) bool {
	if s == "" || len(s) > maxTraceIDLength {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

package api

import (
	"net/http"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/service/policy"
)

// callerFromRequest returns the identity set by the auth middleware. When
// it is missing a 401 has been written and ok is false.
func callerFromRequest(w http.ResponseWriter, r *http.Request) (policy.Caller, bool) {
	userID, role, ok := shared.CallerFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return policy.Caller{}, false
	}
	return policy.Caller{ID: userID, Role: role}, true
}

// decodeAndValidate decodes the body into v and runs tag validation. On
// failure the error response has been written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}

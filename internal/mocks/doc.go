// Package mocks provides shared test doubles for the store, auth and events
// interfaces.
//
// Stores are built on testify/mock so tests can assert on calls. The JWT
// service, password helpers and event emitter use function fields with
// sensible defaults:
//
//	jwt := &mocks.MockJWTService{
//	    ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return &auth.Claims{UserID: userID, Role: domain.RoleUser}, nil
//	    },
//	}
package mocks

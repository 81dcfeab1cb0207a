package auth

import "errors"

// Authentication errors. All of them map to 401 at the HTTP edge.
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrWrongTokenType is returned when a refresh token is presented as an
	// access token or the other way round.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrInvalidCredentials is returned when a password does not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// IsAuthError reports whether err is one of the authentication errors above.
func IsAuthError(err error) bool {
	for _, target := range []error{
		ErrInvalidToken,
		ErrExpiredToken,
		ErrTokenNotYetValid,
		ErrMissingToken,
		ErrInvalidRefreshToken,
		ErrExpiredRefreshToken,
		ErrWrongTokenType,
		ErrInvalidCredentials,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Package common defines sentinel errors shared across the auth service.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound  = errors.New("not found")
	ErrorDuplicate = errors.New("already exists")

	// Authentication failures. The message text is part of the API
	// contract: every login failure collapses to the same message so a
	// caller cannot tell which check rejected it, while refresh failures
	// distinguish an unknown token from an expired one.
	ErrInvalidCredentials  = errors.New("Invalid email or password")
	ErrInvalidRefreshToken = errors.New("Invalid refresh token")
	ErrRefreshTokenExpired = errors.New("Token expired")
)

// IsAuthenticationFailed reports whether err is one of the authentication
// failure sentinels. Infrastructure errors from collaborators are never
// reinterpreted as authentication failures.
func IsAuthenticationFailed(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidRefreshToken) ||
		errors.Is(err, ErrRefreshTokenExpired)
}

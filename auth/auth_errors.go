package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for every login failure so callers cannot
	// tell an unknown email from a wrong password.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNoRefreshToken      = errors.New("no refresh token provided")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUserNotFound        = errors.New("user not found")
	ErrIncorrectPassword   = errors.New("current password is incorrect")
	ErrPasswordTooShort    = errors.New("new password must be at least 8 characters")
)

package errors

import (
	"errors"
	"fmt"
)

// Common error types for the church GraphQL client
var (
	// Session errors
	ErrLoginRequired   = errors.New("login required")
	ErrSessionNotFound = errors.New("session not found")
	ErrNoRefreshToken  = errors.New("no refresh token")

	// Token errors
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshFailed       = errors.New("token refresh failed")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	// Transport errors
	ErrTransport   = errors.New("graphql transport failure")
	ErrBadResponse = errors.New("malformed graphql response")

	// General errors
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternal       = errors.New("internal error")
	ErrUnsupported    = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors
func Join(errs ...error) error {
	return errors.Join(errs...)
}

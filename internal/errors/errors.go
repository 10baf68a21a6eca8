package errors

import (
	"errors"
	"fmt"
)

var (
	// Login errors
	ErrMissingCredentials   = errors.New("missing credentials")
	ErrRemoteAuthRejected   = errors.New("remote authentication rejected")
	ErrMalformedProfile     = errors.New("malformed provider profile")
	ErrMissingProviderToken = errors.New("missing access token for social login")
	ErrUnknownProvider      = errors.New("unknown provider")

	// OAuth flow errors
	ErrInvalidState = errors.New("invalid state")
	ErrStateExpired = errors.New("state expired")

	// Session errors
	ErrInvalidToken = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token expired")

	// General errors
	ErrRateLimited = errors.New("too many requests")
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

package session

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrAuthFailed matches every *AuthError.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("transport error")
)

// AuthError reports a rejected or unusable credential exchange.
// Reason is a short human-readable cause such as "missing accessToken".
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// Is reports whether target is ErrAuthFailed.
func (e *AuthError) Is(target error) bool {
	return target == ErrAuthFailed
}

func authFailed(reason string) error {
	return &AuthError{Reason: reason}
}

// TransportError wraps a network failure talking to the local control API.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

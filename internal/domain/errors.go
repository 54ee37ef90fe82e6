package domain

import (
	"errors"
	"fmt"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors carry no infrastructure dependency.

var (
	// Local errors, raised before any network call
	ErrValidation = errors.New("validation failed")
	ErrPermission = errors.New("permission denied")
	ErrNotLoaded  = errors.New("tasks not loaded yet")

	// ErrLoad wraps the cause of a failed collection load.
	ErrLoad = errors.New("load tasks")

	// Transport errors
	ErrTransport = errors.New("task transport error")
	// ErrAuthExpired is a transport error: errors.Is(ErrAuthExpired, ErrTransport) holds.
	ErrAuthExpired = fmt.Errorf("%w: authentication expired", ErrTransport)

	// Server-side errors
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenInvalid       = errors.New("token missing, invalid or expired")

	// Client session errors
	ErrNoSession = errors.New("not logged in")
)

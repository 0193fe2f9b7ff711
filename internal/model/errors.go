package model

import (
	"errors"
	"fmt"
)

var (
	// Input errors
	ErrValidation = errors.New("validation failed")

	// User related errors
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenInvalidSignature = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Lookup errors
	ErrNotFound     = errors.New("not found")
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	ErrNoteNotFound = fmt.Errorf("note %w", ErrNotFound)

	// Infrastructure errors
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUpstream         = errors.New("upstream request failed")
	ErrNotImplemented   = errors.New("not implemented")
)

package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrForbidden is returned when the user lacks permission for an action
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrVersionConflict is returned when an update presents a stale version
	ErrVersionConflict = errors.New("version conflict: tender was modified by someone else")

	// ErrTenderClosed is returned when mutating a won/lost tender
	ErrTenderClosed = errors.New("tender is closed")

	// ErrReasonRequired is returned when lost/dropped is set without a reason
	ErrReasonRequired = errors.New("a reason is required for this status")

	// ErrInvalidTransition is returned for disallowed lifecycle transitions
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotAssigned is returned when a user responds to an assignment
	// that doesn't belong to them
	ErrNotAssigned = errors.New("user is not assigned to this tender")

	// ErrAlreadyResponded is returned when re-responding to an assignment
	ErrAlreadyResponded = errors.New("assignment response already recorded")

	// ErrNotWon is returned for post-award operations on tenders that
	// haven't been won
	ErrNotWon = errors.New("tender has not been won")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when creating a user with an existing email
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials is returned on bad login attempts
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserInactive is returned when a deactivated user tries to log in
	ErrUserInactive = errors.New("user account is deactivated")

	// ErrAIDisabled is returned when an AI operation is requested but the
	// assistant is not configured
	ErrAIDisabled = errors.New("ai assistant is not configured")
)

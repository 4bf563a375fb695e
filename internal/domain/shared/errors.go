// Package shared contains common domain types and errors used across all
// domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")

	// ErrParseFailure marks a structured AI response that could not be
	// decoded. Kept distinct from ErrExternalService: the provider call
	// succeeded, the payload did not.
	ErrParseFailure = errors.New("response parse failure")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "user", "task", "progress"
	Op      string // Operation that failed, e.g., "Create", "Update"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// User domain errors
var (
	ErrUserNotFound      = NewDomainError("user", "Find", ErrNotFound, "user not found")
	ErrEmailTaken        = NewDomainError("user", "Register", ErrAlreadyExists, "email already registered")
	ErrInvalidEmail      = NewDomainError("user", "Validate", ErrInvalidFormat, "invalid email address")
	ErrPasswordTooShort  = NewDomainError("user", "Validate", ErrValueOutOfRange, "password must be at least 6 characters")
	ErrWrongCredentials  = NewDomainError("user", "Authenticate", ErrUnauthorized, "invalid email or password")
	ErrSettingsNotFound  = NewDomainError("user", "FindSettings", ErrNotFound, "user settings not found")
	ErrSessionTokenStale = NewDomainError("user", "Authorize", ErrUnauthorized, "session token expired or revoked")
)

// Material domain errors
var (
	ErrMaterialNotFound    = NewDomainError("material", "Find", ErrNotFound, "material not found")
	ErrDisallowedFileType  = NewDomainError("material", "Validate", ErrInvalidInput, "file type is not allowed")
	ErrMaterialNoText      = NewDomainError("material", "Process", ErrInvalidState, "material has no extracted text")
	ErrInvalidMaterialGoal = NewDomainError("material", "Process", ErrInvalidInput, "unknown study goal")
)

// Task domain errors
var (
	ErrTaskNotFound    = NewDomainError("task", "Find", ErrNotFound, "task not found")
	ErrInvalidPriority = NewDomainError("task", "Validate", ErrInvalidInput, "invalid task priority")
	ErrInvalidDueDate  = NewDomainError("task", "Validate", ErrInvalidFormat, "malformed due date")
)

// Study session domain errors
var (
	ErrStudySessionNotFound = NewDomainError("studysession", "Find", ErrNotFound, "study session not found")
	ErrSessionAlreadyEnded  = NewDomainError("studysession", "End", ErrInvalidState, "study session already ended")
	ErrInvalidActivityType  = NewDomainError("studysession", "Validate", ErrInvalidInput, "invalid activity type")
)

// Notification domain errors
var (
	ErrNotificationNotFound = NewDomainError("notification", "Find", ErrNotFound, "notification not found")
	ErrInvalidKind          = NewDomainError("notification", "Validate", ErrInvalidInput, "invalid notification kind")
)

// Progress domain errors
var (
	ErrProgressNotFound = NewDomainError("progress", "Find", ErrNotFound, "daily progress not found")
	ErrNegativeDelta    = NewDomainError("progress", "Record", ErrNegativeValue, "activity deltas cannot be negative")
)

// AI gateway errors
var (
	ErrAIProviderFailed   = NewDomainError("ai", "Complete", ErrExternalService, "AI provider request failed")
	ErrAIProviderTimeout  = NewDomainError("ai", "Complete", ErrTimeout, "AI provider request timeout")
	ErrAIRateLimited      = NewDomainError("ai", "Complete", ErrRateLimited, "AI provider rate limit exceeded")
	ErrAIResponseNotJSON  = NewDomainError("ai", "Parse", ErrParseFailure, "no JSON payload found in AI response")
	ErrAIResponseBadShape = NewDomainError("ai", "Parse", ErrParseFailure, "AI response JSON has unexpected shape")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsUnauthorized checks if the error is an authorization failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

// IsProviderFailure checks if the error came from the AI provider call itself.
func IsProviderFailure(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited)
}

// IsParseFailure checks if the error is a structured-output parse failure.
func IsParseFailure(err error) bool {
	return errors.Is(err, ErrParseFailure)
}

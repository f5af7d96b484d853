package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/identity-service/internal/validator"
)

// Sentinel errors returned by the identity services. Handlers map these to
// HTTP statuses with errors.Is/As; services never speak HTTP themselves.
var (
	// ErrInvalidCredentials covers every signin failure mode: unknown
	// username, disabled account, or wrong password. The caller cannot
	// distinguish which one occurred.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnauthenticated means the request carried no valid principal.
	ErrUnauthenticated = errors.New("authentication required")

	ErrUserNotFound           = errors.New("user not found")
	ErrStudentProfileNotFound = errors.New("student profile not found")
	ErrTeacherProfileNotFound = errors.New("teacher profile not found")
	ErrParentProfileNotFound  = errors.New("parent profile not found")

	ErrUsernameTaken = errors.New("username is already taken")
	ErrEmailTaken    = errors.New("email is already in use")

	// ErrRoleCatalogNotSeeded indicates the roles collection is missing a
	// required entry. This is a deployment fault, not a client error.
	ErrRoleCatalogNotSeeded = errors.New("role catalog is not seeded")
)

// PermissionError carries the denied action for logging; the boundary
// response only exposes that access was denied.
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// ConflictError reports a uniqueness violation on a named field. It wraps
// the matching sentinel so errors.Is keeps working.
type ConflictError struct {
	Field    string
	sentinel error
}

func (e *ConflictError) Error() string {
	return e.sentinel.Error()
}

func (e *ConflictError) Unwrap() error {
	return e.sentinel
}

func NewUsernameConflict() *ConflictError {
	return &ConflictError{Field: "username", sentinel: ErrUsernameTaken}
}

func NewEmailConflict() *ConflictError {
	return &ConflictError{Field: "email", sentinel: ErrEmailTaken}
}

// validationError builds a single-field validation failure outside the
// struct-tag pipeline.
func validationError(field, message string, value interface{}) validator.ValidationErrors {
	return validator.ValidationErrors{{Field: field, Message: message, Value: value}}
}

// IsConflictError reports whether err is any uniqueness conflict.
func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce) || errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrEmailTaken)
}

package models

import "fmt"

// Error codes forming the application's error taxonomy. Handlers map these
// onto the per-endpoint wire statuses; repositories never return raw store
// errors across the operation boundary.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodePolicyViolation = "POLICY_VIOLATION"
	CodeUsernameTaken   = "USERNAME_TAKEN"
	CodeEmailTaken      = "EMAIL_TAKEN"
	CodeConflict        = "CONFLICT"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeInternal        = "INTERNAL_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewPolicyViolationError(message string) *AppError {
	return &AppError{
		Code:    CodePolicyViolation,
		Message: message,
	}
}

func NewUsernameTakenError(username string) *AppError {
	return &AppError{
		Code:    CodeUsernameTaken,
		Message: fmt.Sprintf("username %q is already taken", username),
	}
}

func NewEmailTakenError(email string) *AppError {
	return &AppError{
		Code:    CodeEmailTaken,
		Message: fmt.Sprintf("email %q is already registered", email),
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "internal error",
		Err:     err,
	}
}

// CodeOf extracts the taxonomy code from an error, returning CodeInternal
// for anything that is not an *AppError.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

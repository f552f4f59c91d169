package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Schedule errors
var (
	ErrScheduleNotFound    = errors.New("schedule not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrScheduleConflict    = errors.New("schedule conflict")
	ErrNothingToImport     = errors.New("nothing new to import")
	ErrRenameInProgress    = errors.New("a rename is already in progress for this schedule")
	ErrRenameFailed        = errors.New("rename confirmation failed")
	ErrInvalidScheduleName = errors.New("invalid schedule name")
)

// NewScheduleConflictError creates an error carrying the day and time
// window of the offending session, for display to the end user.
func NewScheduleConflictError(message string) error {
	return &CustomError{
		Err:     ErrScheduleConflict,
		Message: message,
	}
}

// NewValidationError creates a validation error with a human-readable
// reason for the violated rule.
func NewValidationError(sentinel error, message string) error {
	return &CustomError{
		Err:     sentinel,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

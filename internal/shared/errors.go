package shared

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrValidation indicates caller supplied data violates a precondition.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a cardinality invariant would be violated.
	ErrConflict = errors.New("conflict")
	// ErrIO indicates the underlying storage failed.
	ErrIO = errors.New("storage i/o failure")
	// ErrStorageUnavailable indicates the store could not be opened.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInvalidCredentials indicates unlock failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IOError wraps a storage driver failure.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrIO, e.Err)
}

// Unwrap exposes both ErrIO and the driver cause.
func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// FromValidator converts validator failures into a ValidationError naming the first field.
func FromValidator(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidationError("", err.Error())
	}
	fe := fieldErrs[0]
	return NewValidationError(lowerFirst(fe.Field()), describeTag(fe))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return "must not be blank"
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of " + fe.Param()
	case "datetime":
		return "must be a date in YYYY-MM-DD form"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// UserSafeMessage returns an error message that can be shown to the end user.
func UserSafeMessage(err error) string {
	var vErr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &vErr):
		return vErr.Error()
	case errors.Is(err, ErrNotFound):
		return "record not found"
	case errors.Is(err, ErrConflict):
		return "record already exists"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid password"
	case errors.Is(err, ErrStorageUnavailable), errors.Is(err, ErrIO):
		return "storage is unavailable, your changes were not saved"
	default:
		return "unexpected error"
	}
}

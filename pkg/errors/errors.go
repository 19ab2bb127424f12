package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// Is matches any AppError carrying the same code, so callers can compare
// against the sentinels below with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// StatusCode maps the error code onto an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrBadRequest, ErrInvalidRole, ErrNoFieldsProvided:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrDuplicateCode:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Kind is the wire name of the error code.
func (e *AppError) Kind() string {
	switch e.Code {
	case ErrNotFound:
		return "NotFound"
	case ErrBadRequest:
		return "InvalidInput"
	case ErrUnauthorized:
		return "Unauthorized"
	case ErrDuplicateCode:
		return "DuplicateCode"
	case ErrInvalidRole:
		return "InvalidRole"
	case ErrNoFieldsProvided:
		return "NoFieldsProvided"
	case ErrCompletionFailed:
		return "CompletionFailed"
	default:
		return "Internal"
	}
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrInternal
	ErrDuplicateCode
	ErrInvalidRole
	ErrNoFieldsProvided
	ErrCompletionFailed
)

// Sentinels for errors.Is comparisons.
var (
	NotFoundError         = &AppError{Code: ErrNotFound}
	DuplicateCodeError    = &AppError{Code: ErrDuplicateCode}
	InvalidRoleError      = &AppError{Code: ErrInvalidRole}
	NoFieldsError         = &AppError{Code: ErrNoFieldsProvided}
	CompletionFailedError = &AppError{Code: ErrCompletionFailed}
	UnauthorizedError     = &AppError{Code: ErrUnauthorized}
	BadRequestError       = &AppError{Code: ErrBadRequest}
)

// Error constructors
func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "invalid credentials",
		Err:     err,
	}
}

func DuplicateCode(code string, err error) *AppError {
	return &AppError{
		Code:    ErrDuplicateCode,
		Message: fmt.Sprintf("ID %s already exists", code),
		Err:     err,
	}
}

func InvalidRole(role string) *AppError {
	return &AppError{
		Code:    ErrInvalidRole,
		Message: fmt.Sprintf("invalid role %q specified", role),
	}
}

func NoFieldsProvided() *AppError {
	return &AppError{
		Code:    ErrNoFieldsProvided,
		Message: "no fields provided for update",
	}
}

func CompletionFailed(err error) *AppError {
	return &AppError{
		Code:    ErrCompletionFailed,
		Message: "failed to complete appointment",
		Err:     err,
	}
}

// From returns the AppError in err's chain, or wraps err as an internal error.
func From(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

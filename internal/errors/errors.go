package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Tetra error code.
type ErrorCode string

const (
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"       // 400
	ErrInvalidSettingValue ErrorCode = "INVALID_SETTING_VALUE" // 400
	ErrNoSyncFile          ErrorCode = "NO_SYNC_FILE"          // 409
	ErrCannotDisable       ErrorCode = "CANNOT_DISABLE"        // 409
	ErrObserverBusy        ErrorCode = "OBSERVER_BUSY"         // 409
	ErrNotFound            ErrorCode = "NOT_FOUND"             // 404
	ErrFileNotFound        ErrorCode = "FILE_NOT_FOUND"        // 404
	ErrEncodingGuess       ErrorCode = "ENCODING_GUESS_FAILED" // 422
	ErrCancelled           ErrorCode = "CANCELLED"             // 499
	ErrInternal            ErrorCode = "INTERNAL"              // 500
)

// TetraError represents a structured error with code, status, and details.
type TetraError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *TetraError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *TetraError {
	return &TetraError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidSettingValue creates a 400 error for a value rejected by a setting's constraints.
func NewInvalidSettingValue(setting, value, reason string) *TetraError {
	return &TetraError{
		Code:    ErrInvalidSettingValue,
		Status:  400,
		Message: fmt.Sprintf("invalid value %q for setting %q: %s", value, setting, reason),
		Details: map[string]any{"setting": setting, "value": value},
	}
}

// NewNoSyncFile creates a 409 error for file operations on a buffer without a linked file.
func NewNoSyncFile(buffer string) *TetraError {
	return &TetraError{
		Code:    ErrNoSyncFile,
		Status:  409,
		Message: fmt.Sprintf("buffer %q has no sync file", buffer),
		Details: map[string]any{"buffer": buffer},
	}
}

// NewCannotDisable creates a 409 error when disabling a module that must stay enabled.
func NewCannotDisable(module string) *TetraError {
	return &TetraError{
		Code:    ErrCannotDisable,
		Status:  409,
		Message: fmt.Sprintf("module %q cannot be disabled", module),
		Details: map[string]any{"module": module},
	}
}

// NewObserverBusy creates a 409 error when the lifecycle observer is swapped
// while a module is being constructed.
func NewObserverBusy() *TetraError {
	return &TetraError{
		Code:    ErrObserverBusy,
		Status:  409,
		Message: "lifecycle observer cannot change while a module is being constructed",
	}
}

// NewNotFound creates a 404 error for an unknown module, setting, or buffer.
func NewNotFound(kind, identifier string) *TetraError {
	return &TetraError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"kind": kind, "identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *TetraError {
	return &TetraError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewEncodingGuess creates a 422 error when the charset of a file cannot be determined.
func NewEncodingGuess(path string) *TetraError {
	return &TetraError{
		Code:    ErrEncodingGuess,
		Status:  422,
		Message: fmt.Sprintf("could not determine encoding of %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewCancelled creates an error for an operation interrupted by context cancellation.
func NewCancelled(op string) *TetraError {
	return &TetraError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *TetraError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &TetraError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is (or wraps) a TetraError with the given code.
func Is(err error, code ErrorCode) bool {
	var tErr *TetraError
	if stderrors.As(err, &tErr) {
		return tErr.Code == code
	}
	return false
}

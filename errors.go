package rsc

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the category of a storage error. Codes are
// string-based for debuggability and natural serialization.
type ErrorCode string

const (
	// CodeConnectionFailure indicates a backend session could not be
	// established. Fatal to the connection; the library never retries.
	CodeConnectionFailure ErrorCode = "CONNECTION_FAILURE"

	// CodeNotFound indicates a precondition required the target to exist
	// and it did not. Raised before any backend mutation is attempted.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates a precondition required the target to be
	// absent and it was present.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeNotPerformed indicates a delegated backend call failed. A partial
	// side effect may already have occurred on the backend.
	CodeNotPerformed ErrorCode = "NOT_PERFORMED"

	// CodeInvalidInput indicates a caller-supplied value has the wrong shape.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// StorageError is the error type returned by every operation in this
// library. It carries a code for programmatic handling, a human-readable
// message and, where available, the wrapped backend error as a cause chain
// compatible with errors.Is and errors.As.
type StorageError struct {
	code    ErrorCode
	message string
	cause   error
}

// NewError creates a StorageError with the given code and message.
func NewError(code ErrorCode, message string) *StorageError {
	return &StorageError{code: code, message: message}
}

// Errorf creates a StorageError with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *StorageError {
	return &StorageError{code: code, message: fmt.Sprintf(format, args...)}
}

// WrapError creates a StorageError wrapping a backend error as its cause.
func WrapError(cause error, code ErrorCode, message string) *StorageError {
	return &StorageError{code: code, message: message, cause: cause}
}

// Wrapf creates a StorageError with a formatted message wrapping a cause.
func Wrapf(cause error, code ErrorCode, format string, args ...any) *StorageError {
	return &StorageError{code: code, message: fmt.Sprintf(format, args...), cause: cause}
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Code returns the error category.
func (e *StorageError) Code() ErrorCode {
	return e.code
}

// Message returns the message without the cause chain.
func (e *StorageError) Message() string {
	return e.message
}

// Unwrap returns the wrapped backend error, or nil.
func (e *StorageError) Unwrap() error {
	return e.cause
}

// CodeOf extracts the ErrorCode from an error chain. It returns the empty
// code when the chain contains no StorageError.
func CodeOf(err error) ErrorCode {
	var se *StorageError
	if errors.As(err, &se) {
		return se.code
	}
	return ""
}

// IsConnectionFailure reports whether err carries CodeConnectionFailure.
func IsConnectionFailure(err error) bool { return CodeOf(err) == CodeConnectionFailure }

// IsNotFound reports whether err carries CodeNotFound.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsAlreadyExists reports whether err carries CodeAlreadyExists.
func IsAlreadyExists(err error) bool { return CodeOf(err) == CodeAlreadyExists }

// IsNotPerformed reports whether err carries CodeNotPerformed.
func IsNotPerformed(err error) bool { return CodeOf(err) == CodeNotPerformed }

// IsInvalidInput reports whether err carries CodeInvalidInput.
func IsInvalidInput(err error) bool { return CodeOf(err) == CodeInvalidInput }

package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common error cases
var (
	// ErrNotFound indicates the requested record was not found
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput indicates the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorageError indicates a datastore operation failed
	ErrStorageError = errors.New("storage error")

	// ErrContractViolation indicates a caller violated an API precondition.
	// This is a programming error, not a recoverable user-facing condition.
	ErrContractViolation = errors.New("contract violation")

	// ErrGitOperationFailed indicates the external git collaborator failed
	ErrGitOperationFailed = errors.New("git operation failed")

	// ErrBranchNotFound indicates the branch was not found
	ErrBranchNotFound = errors.New("branch not found")

	// ErrCurrentBranch indicates an operation on the checked-out branch is not allowed
	ErrCurrentBranch = errors.New("operation not allowed on current branch")

	// ErrConfigError indicates a configuration error
	ErrConfigError = errors.New("configuration error")
)

// ErrorCode classifies an AppError by failure domain
type ErrorCode int

const (
	CodeBadRequest ErrorCode = iota + 1
	CodeNotFound
	CodeStorage
	CodeGit
	CodeContract
	CodeConfig
)

// String returns a short name for the code, used in log output
func (c ErrorCode) String() string {
	switch c {
	case CodeBadRequest:
		return "bad_request"
	case CodeNotFound:
		return "not_found"
	case CodeStorage:
		return "storage"
	case CodeGit:
		return "git"
	case CodeContract:
		return "contract"
	case CodeConfig:
		return "config"
	}
	return "unknown"
}

// AppError represents an application-level error with additional context
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is comparison against the wrapped sentinel
func (e *AppError) Is(target error) bool {
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// WithDetails adds additional details to the error
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new AppError with the given code, message, and underlying error
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound creates a new not found error
func NotFound(resource string, err error) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s not found", resource), err)
}

// BadRequest creates a new bad request error
func BadRequest(message string, err error) *AppError {
	if message == "" {
		message = "invalid request"
	}
	return NewAppError(CodeBadRequest, message, err)
}

// StorageError creates a new storage error for a failed datastore operation
func StorageError(operation string, err error) *AppError {
	return NewAppError(CodeStorage, fmt.Sprintf("storage %s failed", operation), err)
}

// GitError creates a new error for a failed git operation
func GitError(operation string, err error) *AppError {
	return NewAppError(CodeGit, fmt.Sprintf("git %s failed", operation), err)
}

// ContractError creates a new contract violation error. Callers hitting this
// have a bug; it is reported distinctly from recoverable failures.
func ContractError(message string) *AppError {
	return NewAppError(CodeContract, message, ErrContractViolation)
}

// ConfigError creates a new configuration error
func ConfigError(message string, err error) *AppError {
	return NewAppError(CodeConfig, message, err)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// IsStorage checks if an error is a storage error
func IsStorage(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeStorage
	}
	return errors.Is(err, ErrStorageError)
}

// IsContractViolation checks if an error is a contract violation
func IsContractViolation(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeContract
	}
	return errors.Is(err, ErrContractViolation)
}

// IsGit checks if an error is a git operation error
func IsGit(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeGit
	}
	return errors.Is(err, ErrGitOperationFailed)
}

// IsBadRequest checks if an error is a bad request error
func IsBadRequest(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeBadRequest
	}
	return errors.Is(err, ErrInvalidInput)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapWithCode wraps an error with a specific error code
func WrapWithCode(err error, code ErrorCode, message string) *AppError {
	return NewAppError(code, message, err)
}

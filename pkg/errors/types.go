// Package errors provides typed errors for the land project.
//
// This package defines domain-specific error types that provide structured
// error information for different subsystems (parsing, git, credentials,
// GitHub API, workflow). All error types implement the standard error
// interface and support errors.Is() and errors.As() from the standard
// library and cockroachdb/errors.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrEmptyMessage indicates the user left the close message empty, which is
// the deliberate cancellation mechanism. Nothing is pushed or posted when
// this error is returned.
var ErrEmptyMessage = errors.New("close message is empty")

// ParseError represents input parsing errors, such as a pull request URL
// that does not decompose into /<owner>/<repo>/pull/<number>.
type ParseError struct {
	Input   string // The input that failed to parse
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("parse error for %q: %s", e.Input, e.Message)
	}
	return "parse error: " + e.Message
}

// NewParseError creates a new ParseError.
func NewParseError(input, message string) *ParseError {
	return &ParseError{Input: input, Message: message}
}

// GitError represents git subprocess failures. Output carries the tool's
// own diagnostic so the user sees exactly what git printed.
type GitError struct {
	Command string // e.g., "checkout", "rebase"
	Output  string
	Cause   error
}

// Error implements the error interface.
func (e *GitError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("git %s failed: %s", e.Command, e.Output)
	}
	return fmt.Sprintf("git %s failed", e.Command)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *GitError) Unwrap() error {
	return e.Cause
}

// NewGitError creates a new GitError.
func NewGitError(command, output string) *GitError {
	return &GitError{Command: command, Output: output}
}

// NewGitErrorWithCause creates a new GitError with an underlying cause.
func NewGitErrorWithCause(command, output string, cause error) *GitError {
	return &GitError{Command: command, Output: output, Cause: cause}
}

// CredentialError represents credential resolution errors, such as a
// missing username or password field from the credential store.
type CredentialError struct {
	Field   string // Which credential field has the issue
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *CredentialError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("credential error in %s: %s", e.Field, e.Message)
	}
	return "credential error: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *CredentialError) Unwrap() error {
	return e.Cause
}

// NewCredentialError creates a new CredentialError.
func NewCredentialError(field, message string) *CredentialError {
	return &CredentialError{Field: field, Message: message}
}

// NewCredentialErrorWithCause creates a new CredentialError with an underlying cause.
func NewCredentialErrorWithCause(field, message string, cause error) *CredentialError {
	return &CredentialError{Field: field, Message: message, Cause: cause}
}

// APIError represents GitHub API errors.
type APIError struct {
	Operation  string // e.g., "GetPullRequest", "CreateComment"
	StatusCode int    // HTTP status code if applicable
	Message    string
	Retryable  bool
	Cause      error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("github %s failed (HTTP %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("github %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// NewAPIError creates a new APIError.
func NewAPIError(operation, message string) *APIError {
	return &APIError{Operation: operation, Message: message}
}

// NewAPIErrorWithStatus creates a new APIError with HTTP status code.
func NewAPIErrorWithStatus(operation string, statusCode int, message string) *APIError {
	retryable := isRetryableHTTPStatus(statusCode)
	return &APIError{
		Operation:  operation,
		StatusCode: statusCode,
		Message:    message,
		Retryable:  retryable,
	}
}

// NewAPIErrorWithCause creates a new APIError with an underlying cause.
func NewAPIErrorWithCause(operation, message string, cause error) *APIError {
	return &APIError{
		Operation: operation,
		Message:   message,
		Retryable: IsRetryable(cause),
		Cause:     cause,
	}
}

// WorkflowError represents merge workflow orchestration errors.
type WorkflowError struct {
	Step      string // e.g., "credentials", "inspect", "integrate", "compose", "publish"
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
func (e *WorkflowError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("workflow step %s failed: %s", e.Step, e.Message)
	}
	return "workflow error: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *WorkflowError) Unwrap() error {
	return e.Cause
}

// NewWorkflowError creates a new WorkflowError.
func NewWorkflowError(step, message string) *WorkflowError {
	return &WorkflowError{Step: step, Message: message}
}

// NewWorkflowErrorWithCause creates a new WorkflowError with an underlying cause.
func NewWorkflowErrorWithCause(step, message string, cause error) *WorkflowError {
	return &WorkflowError{
		Step:      step,
		Message:   message,
		Retryable: IsRetryable(cause),
		Cause:     cause,
	}
}

// IsRetryable checks if an error or any error in its chain is retryable.
// This is classification metadata only: nothing in land retries a failed
// call, except the single two-factor resend inside the API client.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}

	var wfErr *WorkflowError
	if errors.As(err, &wfErr) {
		return wfErr.Retryable
	}

	return false
}

// IsParseError checks if an error or any error in its chain is a ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsGitError checks if an error or any error in its chain is a GitError.
func IsGitError(err error) bool {
	var gitErr *GitError
	return errors.As(err, &gitErr)
}

// IsCredentialError checks if an error or any error in its chain is a CredentialError.
func IsCredentialError(err error) bool {
	var credErr *CredentialError
	return errors.As(err, &credErr)
}

// IsAPIError checks if an error or any error in its chain is an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsWorkflowError checks if an error or any error in its chain is a WorkflowError.
func IsWorkflowError(err error) bool {
	var wfErr *WorkflowError
	return errors.As(err, &wfErr)
}

// isRetryableHTTPStatus returns true for HTTP status codes that are typically retryable.
func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, // Request Timeout
		429, // Too Many Requests
		500, // Internal Server Error
		502, // Bad Gateway
		503, // Service Unavailable
		504: // Gateway Timeout
		return true
	default:
		return false
	}
}

// Re-export commonly used functions from cockroachdb/errors for convenience.
// This allows consumers to use landerrors.Wrap() instead of importing two packages.
var (
	// New creates a new error with the given message.
	New = errors.New

	// Newf creates a new error with formatted message.
	Newf = errors.Newf

	// Wrap wraps an error with additional context.
	Wrap = errors.Wrap

	// Wrapf wraps an error with formatted additional context.
	Wrapf = errors.Wrapf

	// Is reports whether any error in err's chain matches target.
	Is = errors.Is

	// As finds the first error in err's chain that matches target.
	As = errors.As

	// Cause returns the root cause of an error.
	Cause = errors.Cause
)

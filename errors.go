package chatkit

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is a stable identifier for a stream failure. Each code carries a
// default HTTP status and a default retryability; both can be overridden when
// the error is raised.
type ErrorCode string

const (
	// ErrCodeInternal covers unexpected faults inside the engine or an
	// integration hook. Retryable by default.
	ErrCodeInternal ErrorCode = "internal_error"

	// ErrCodeInvalidRequest covers malformed or semantically invalid
	// requests. Not retryable.
	ErrCodeInvalidRequest ErrorCode = "invalid_request"

	// ErrCodeNotFound covers missing threads, items and attachments.
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeThreadLocked is raised when a streaming request targets a
	// thread whose status forbids new input.
	ErrCodeThreadLocked ErrorCode = "thread_locked"

	// ErrCodeRateLimited signals upstream throttling. Retryable.
	ErrCodeRateLimited ErrorCode = "rate_limited"

	// ErrCodeUnsupported is the default for hooks an integration has not
	// implemented.
	ErrCodeUnsupported ErrorCode = "unsupported"
)

type codeDefaults struct {
	status     int
	allowRetry bool
}

var errorCodeDefaults = map[ErrorCode]codeDefaults{
	ErrCodeInternal:       {status: http.StatusInternalServerError, allowRetry: true},
	ErrCodeInvalidRequest: {status: http.StatusBadRequest, allowRetry: false},
	ErrCodeNotFound:       {status: http.StatusNotFound, allowRetry: false},
	ErrCodeThreadLocked:   {status: http.StatusConflict, allowRetry: false},
	ErrCodeRateLimited:    {status: http.StatusTooManyRequests, allowRetry: true},
	ErrCodeUnsupported:    {status: http.StatusNotImplemented, allowRetry: false},
}

// StreamError is a coded failure raised inside a streaming request. The
// request processor converts it into a terminal error event instead of
// failing the transport.
type StreamError struct {
	Code    ErrorCode
	Message string // diagnostic only, not shown to end users
	Status  int    // HTTP status override, 0 means use the code default
	Retry   *bool  // retryability override, nil means use the code default
	Cause   error
}

// NewStreamError creates a coded stream error with the code's default status
// and retryability.
func NewStreamError(code ErrorCode, message string) *StreamError {
	return &StreamError{Code: code, Message: message}
}

// WithCause attaches an underlying error and returns the receiver.
func (e *StreamError) WithCause(cause error) *StreamError {
	e.Cause = cause
	return e
}

// WithRetry overrides the code's default retryability and returns the
// receiver.
func (e *StreamError) WithRetry(allow bool) *StreamError {
	e.Retry = &allow
	return e
}

// Error returns the diagnostic message.
func (e *StreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(e.Code)
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status for this error.
func (e *StreamError) StatusCode() int {
	if e.Status != 0 {
		return e.Status
	}
	if d, ok := errorCodeDefaults[e.Code]; ok {
		return d.status
	}
	return http.StatusInternalServerError
}

// AllowRetry reports whether the UI should offer a retry action.
func (e *StreamError) AllowRetry() bool {
	if e.Retry != nil {
		return *e.Retry
	}
	if d, ok := errorCodeDefaults[e.Code]; ok {
		return d.allowRetry
	}
	return false
}

// Event converts the error into its terminal stream event.
func (e *StreamError) Event() ErrorEvent {
	return ErrorEvent{Type: EventError, Code: e.Code, AllowRetry: e.AllowRetry()}
}

// CustomStreamError carries an integration-supplied, already-localized
// message that is shown to the end user verbatim. Not retryable unless the
// integration says so.
type CustomStreamError struct {
	Message string
	Retry   bool
	Status  int // 0 means 500
}

// NewCustomStreamError creates a non-retryable custom-message stream error.
func NewCustomStreamError(message string) *CustomStreamError {
	return &CustomStreamError{Message: message}
}

// WithRetry marks the error retryable and returns the receiver.
func (e *CustomStreamError) WithRetry(allow bool) *CustomStreamError {
	e.Retry = allow
	return e
}

// Error returns the user-facing message.
func (e *CustomStreamError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status for this error.
func (e *CustomStreamError) StatusCode() int {
	if e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// AllowRetry reports whether the UI should offer a retry action.
func (e *CustomStreamError) AllowRetry() bool {
	return e.Retry
}

// Event converts the error into its terminal stream event.
func (e *CustomStreamError) Event() ErrorEvent {
	return ErrorEvent{Type: EventError, Message: e.Message, AllowRetry: e.Retry}
}

// ErrorEventFor maps any error to the terminal event that ends the stream.
// Coded and custom stream errors keep their own code, message and
// retryability; everything else becomes a generic internal error with retry
// allowed.
func ErrorEventFor(err error) ErrorEvent {
	var se *StreamError
	if errors.As(err, &se) {
		return se.Event()
	}
	var ce *CustomStreamError
	if errors.As(err, &ce) {
		return ce.Event()
	}
	return ErrorEvent{Type: EventError, Code: ErrCodeInternal, AllowRetry: true}
}

// StatusCodeOf returns the HTTP status a non-streaming response should use
// for err, or http.StatusInternalServerError when err carries none.
func StatusCodeOf(err error) int {
	var se *StreamError
	if errors.As(err, &se) {
		return se.StatusCode()
	}
	var ce *CustomStreamError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether err is a coded not_found stream error.
func IsNotFound(err error) bool {
	var se *StreamError
	return errors.As(err, &se) && se.Code == ErrCodeNotFound
}

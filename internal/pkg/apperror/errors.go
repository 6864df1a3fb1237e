package apperror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorType is the category of an application error.
type ErrorType string

const (
	ValidationError ErrorType = "VALIDATION_ERROR"
	NotFoundError   ErrorType = "NOT_FOUND"
	ConflictError   ErrorType = "CONFLICT"
	NetworkError    ErrorType = "NETWORK_ERROR"
	HttpStatusError ErrorType = "HTTP_STATUS_ERROR"
	TimeoutError    ErrorType = "TIMEOUT_ERROR"
)

// Error carries a type, a stable code and an optional cause.
type Error struct {
	Type    ErrorType              `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`

	// UpstreamStatus is the remote HTTP status for HttpStatusError.
	UpstreamStatus int   `json:"upstream_status,omitempty"`
	Cause          error `json:"-"`
}

func New(t ErrorType, code, message string) *Error {
	return &Error{Type: t, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error with the same type and code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type && (t.Code == "" || e.Code == t.Code)
}

func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// StatusCode maps the error type to the HTTP status returned to API clients.
func (e *Error) StatusCode() int {
	switch e.Type {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case ConflictError:
		return http.StatusConflict
	case TimeoutError:
		return http.StatusGatewayTimeout
	case NetworkError, HttpStatusError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func Validation(code, message string) *Error {
	return New(ValidationError, code, message)
}

func NotFound(code, message string) *Error {
	return New(NotFoundError, code, message)
}

func Conflict(code, message string) *Error {
	return New(ConflictError, code, message)
}

// Network reports a failed remote call to service.
func Network(service string, cause error) *Error {
	return New(NetworkError, "NETWORK_FAILURE", fmt.Sprintf("%s request failed", service)).WithCause(cause)
}

// HTTPStatus reports a non-success status returned by service.
func HTTPStatus(service string, status int, body string) *Error {
	e := New(HttpStatusError, "UPSTREAM_STATUS", fmt.Sprintf("%s API error: %d", service, status))
	e.UpstreamStatus = status
	if body != "" {
		e.WithDetail("body", body)
	}
	return e
}

func Timeout(service string, cause error) *Error {
	return New(TimeoutError, "UPSTREAM_TIMEOUT", fmt.Sprintf("%s request timed out", service)).WithCause(cause)
}

// FromTransport classifies an error returned by http.Client.Do.
func FromTransport(service string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout(service, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout(service, err)
	}
	return Network(service, err)
}

func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsType(err error, t ErrorType) bool {
	e, ok := As(err)
	return ok && e.Type == t
}

func IsValidation(err error) bool { return IsType(err, ValidationError) }

func IsTimeout(err error) bool { return IsType(err, TimeoutError) }

// IsRemote reports whether err came from a remote call (network, status or timeout).
func IsRemote(err error) bool {
	e, ok := As(err)
	if !ok {
		return false
	}
	return e.Type == NetworkError || e.Type == HttpStatusError || e.Type == TimeoutError
}

// UpstreamStatus returns the remote HTTP status carried by err, or 0.
func UpstreamStatus(err error) int {
	if e, ok := As(err); ok && e.Type == HttpStatusError {
		return e.UpstreamStatus
	}
	return 0
}

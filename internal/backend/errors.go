package backend

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned when the API base is not resolved.
var ErrNotReady = errors.New("backend api base is not configured")

const networkErrorMessage = "Network error. Please check your connection."

// TransportError is a network level failure: DNS, refused connection, timeout.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return networkErrorMessage }

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError is a response that could not be read as the expected JSON.
type ProtocolError struct {
	StatusCode int
	Message    string
}

func (e *ProtocolError) Error() string { return e.Message }

// ApplicationError is a well-formed response that signals failure.
type ApplicationError struct {
	StatusCode int
	Message    string
}

func (e *ApplicationError) Error() string { return e.Message }

// Message returns the human readable message of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func unexpected(status int, format string, args ...any) *ProtocolError {
	return &ProtocolError{StatusCode: status, Message: fmt.Sprintf(format, args...)}
}

package speakingtest

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TransportError indicates the backend could not be reached or the
// exchange failed before a status code was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError indicates the backend answered with a non-2xx status.
// Message carries the server's {"message": ...} field when present.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
}

// InvalidResponseError indicates a 2xx response whose body does not match
// the expected envelope.
type InvalidResponseError struct {
	Op   string
	Body json.RawMessage
	Err  error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("%s: invalid response: %v", e.Op, e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// ServerMessage returns the server-provided message carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message, true
	}
	return "", false
}

// IsUnreachable reports whether err is a transport-level failure.
func IsUnreachable(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

package ezone

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/clambin/ezone-monitor/pkg/ezone/xmlnode"
)

// ErrInvalidArgument is returned when a command is called with a value the controller does not accept.
var ErrInvalidArgument = errors.New("invalid argument")

// MalformedResponseError is returned when the controller's response is not a valid XML document.
type MalformedResponseError = xmlnode.MalformedResponseError

// TransportError is returned when a request to the controller fails: the connection could not be made,
// was reset or timed out, or the controller returned a non-200 status code (in which case StatusCode is set).
type TransportError struct {
	Path       string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return e.Path + ": response status not 200: " + strconv.Itoa(e.StatusCode) + " " + http.StatusText(e.StatusCode)
	}
	return e.Path + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the request may succeed if it is repeated. Connection-level failures are retryable;
// an error response from the controller is not.
func (e *TransportError) Retryable() bool {
	return e.StatusCode == 0
}

// ExhaustedRetriesError is returned when a read failed on every attempt of its retry budget.
type ExhaustedRetriesError struct {
	Attempts int
	LastErr  error
}

func (e *ExhaustedRetriesError) Error() string {
	plural := "s"
	if e.Attempts == 1 {
		plural = ""
	}
	return fmt.Sprintf("no valid response after %d failed attempt%s. last error was: %v", e.Attempts, plural, e.LastErr)
}

func (e *ExhaustedRetriesError) Unwrap() error {
	return e.LastErr
}

// APIError is returned by all Client operations. It records the operation (and zone, for zone operations)
// that failed.
type APIError struct {
	Op   string
	Zone int
	Err  error
}

func (e *APIError) Error() string {
	if e.Zone > 0 {
		return e.Op + "(zone " + strconv.Itoa(e.Zone) + "): " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

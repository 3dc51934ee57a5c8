package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendStatus marks a non-2xx HTTP status from the backend.
	ErrBackendStatus = errors.New("backend returned non-success status")
	// ErrEnvelope marks a well-formed response with success=false.
	ErrEnvelope = errors.New("backend reported failure")
	// ErrDecode marks a response body that is not a valid envelope.
	ErrDecode = errors.New("malformed backend response")
)

// FallbackEnvelopeMessage is shown when success=false carries no error text.
const FallbackEnvelopeMessage = "Server returned error"

// StatusError is returned for a non-2xx response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Server error: %d", e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrBackendStatus
}

// EnvelopeError carries the backend's own failure text.
type EnvelopeError struct {
	Message string
}

func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return FallbackEnvelopeMessage
	}
	return e.Message
}

func (e *EnvelopeError) Is(target error) bool {
	return target == ErrEnvelope
}

// UserMessage normalizes any client error into the single line shown in the
// error banner. Status and envelope failures keep their own text; transport
// and decode failures use the action's fallback.
func UserMessage(err error, fallback string) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	var envErr *EnvelopeError
	if errors.As(err, &envErr) {
		return envErr.Error()
	}
	return fallback
}

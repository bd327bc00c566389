package stream

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Next after the consumer has closed the stream.
var ErrClosed = errors.New("stream: closed by consumer")

// SerializationError reports initial state or structured data that cannot
// be serialized. It is raised before the Header chunk so the caller can
// fall back to an error page instead of a half-written document.
type SerializationError struct {
	// What names the offending input ("initial state", "structured data").
	What string

	// Err is the underlying encoding error, if any.
	Err error
}

// Error returns the error message.
func (e *SerializationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("stream: cannot serialize %s", e.What)
	}
	return fmt.Sprintf("stream: cannot serialize %s: %v", e.What, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *SerializationError) Unwrap() error {
	return e.Err
}

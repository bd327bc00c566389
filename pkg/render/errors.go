package render

import (
	"errors"
	"fmt"
)

// Sentinel causes for render failures.
var (
	// ErrUnknownKind is returned when a tree contains a node kind the
	// producer cannot render.
	ErrUnknownKind = errors.New("render: unknown node kind")

	// ErrNilComponent is returned when a component node has no component.
	ErrNilComponent = errors.New("render: nil component")
)

// Error reports a node the producer cannot render. The failure is fatal to
// the whole render; partial markup is never valid output.
type Error struct {
	// Path locates the offending node, e.g. "body[0]/div[0]/ul[2]/li[1]".
	Path string

	// Err is the underlying cause.
	Err error
}

// Error returns the error message with the node path.
func (e *Error) Error() string {
	return fmt.Sprintf("render: node %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(path string, err error) *Error {
	return &Error{Path: path, Err: err}
}

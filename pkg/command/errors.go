package command

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHandler means a validated command has no registered operation.
	ErrNoHandler = errors.New("no handler registered")

	// ErrMissingMeta is wrapped by MissingMetaError.
	ErrMissingMeta = errors.New("missing undo metadata")
)

// ParsingError is raised for malformed input before any side effect.
type ParsingError struct {
	Input  string
	Reason string
}

func (e *ParsingError) Error() string {
	return e.Reason
}

// ValidationError is raised for a wrong positional arity before any side
// effect.
type ValidationError struct {
	Command string
	Reason  string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ExecutionError is an operation-level failure. Err may be nil when Reason
// already says everything.
type ExecutionError struct {
	Command string
	Reason  string
	Err     error
}

// Failf builds an ExecutionError for command name with a formatted reason.
func Failf(name, format string, args ...interface{}) *ExecutionError {
	return &ExecutionError{Command: name, Reason: fmt.Sprintf(format, args...)}
}

// Wrap builds an ExecutionError wrapping err. A nil err yields nil.
func Wrap(name string, err error) error {
	if err == nil {
		return nil
	}
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return err
	}
	return &ExecutionError{Command: name, Err: err}
}

func (e *ExecutionError) Error() string {
	switch {
	case e.Reason != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	case e.Reason != "":
		return e.Reason
	case e.Err != nil:
		return fmt.Sprintf("error executing %s: %v", e.Command, e.Err)
	default:
		return fmt.Sprintf("error executing %s", e.Command)
	}
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// UnsupportedError is returned when undo is requested from an operation that
// cannot reverse itself.
type UnsupportedError struct {
	Command string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("undo not supported for %s", e.Command)
}

// MissingMetaError names the metadata key an undo needed but did not find.
type MissingMetaError struct {
	Key string
}

func (e *MissingMetaError) Error() string {
	return fmt.Sprintf("%v: %q", ErrMissingMeta, e.Key)
}

func (e *MissingMetaError) Unwrap() error {
	return ErrMissingMeta
}

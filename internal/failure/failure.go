package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a failure surfaced to callers of the search pipeline.
type Kind int

const (
	// ServiceFailure means an external collaborator was unreachable, errored,
	// or returned data that does not match the requested schema.
	ServiceFailure Kind = iota + 1
	// ValidationFailure means the request was rejected before any external call.
	ValidationFailure
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case ServiceFailure:
		return "service_failure"
	case ValidationFailure:
		return "validation_failure"
	default:
		return "unknown"
	}
}

// Error is the typed failure value returned by the orchestrator, the
// synthesizers and the overview builder.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Service wraps err as a ServiceFailure for op.
func Service(op string, err error) error {
	return &Error{Kind: ServiceFailure, Op: op, Err: err}
}

// Validation builds a ValidationFailure for op with a formatted reason.
func Validation(op, format string, args ...any) error {
	return &Error{Kind: ValidationFailure, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the failure kind carried by err, or 0 when err is not a failure.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// IsService reports whether err carries a ServiceFailure.
func IsService(err error) bool { return KindOf(err) == ServiceFailure }

// IsValidation reports whether err carries a ValidationFailure.
func IsValidation(err error) bool { return KindOf(err) == ValidationFailure }

// Package errs defines the error kinds surfaced to the user by dosebook
// operations.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can decide how to report it.
type Kind int

const (
	// Other is an unclassified failure.
	Other Kind = iota
	// Validation is a missing, non-numeric or non-positive input field.
	Validation
	// Precondition is an operation attempted out of order, such as logging
	// without a prior calculation.
	Precondition
	// NotFound is a delete or load target absent from its store.
	NotFound
	// StorageIO is an underlying read or write failure.
	StorageIO
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation error"
	case Precondition:
		return "precondition failed"
	case NotFound:
		return "not found"
	case StorageIO:
		return "storage error"
	default:
		return "error"
	}
}

// Error carries a Kind, the operation that failed and the cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

var (
	ErrValidation   = &Error{Kind: Validation}
	ErrPrecondition = &Error{Kind: Precondition}
	ErrNotFound     = &Error{Kind: NotFound}
	ErrStorageIO    = &Error{Kind: StorageIO}
)

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the bare sentinels (ErrValidation and friends) by Kind, so
// errors.Is(err, errs.ErrNotFound) works on any wrapped NotFound error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

// E builds an *Error. A nil err is allowed for kinds that need no cause.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds an *Error whose cause is a formatted message.
func Errorf(kind Kind, op string, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of the outermost *Error in err's chain, or Other.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

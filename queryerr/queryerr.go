// Package queryerr defines the error kinds returned by every lookup and
// statistics operation.
package queryerr

import (
	"errors"
	"fmt"
)

// Kind categorizes a failed operation.
type Kind string

const (
	// Connection means the pool or a connection was unavailable: the database
	// is unreachable or rejected the credentials.
	Connection Kind = "CONNECTION"

	// QueryExecution means the database refused or failed the statement. The
	// wrapped error carries the database message.
	QueryExecution Kind = "QUERY_EXECUTION"

	// Validation means the caller arguments were rejected before any database
	// access.
	Validation Kind = "VALIDATION"
)

// Error is an operation failure tagged with its Kind.
type Error struct {
	Kind Kind
	// Op names the failing operation, e.g. "query_faq".
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with kind. A nil err yields nil.
func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Validationf builds a Validation error from a format string.
func Validationf(op, format string, args ...any) error {
	return &Error{Kind: Validation, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ""
}

// IsConnection reports whether err is a Connection error.
func IsConnection(err error) bool { return KindOf(err) == Connection }

// IsQueryExecution reports whether err is a QueryExecution error.
func IsQueryExecution(err error) bool { return KindOf(err) == QueryExecution }

// IsValidation reports whether err is a Validation error.
func IsValidation(err error) bool { return KindOf(err) == Validation }

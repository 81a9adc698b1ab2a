package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Domain error taxonomy
// ---------------------------------------------------------------------------

// ErrorKind classifies a domain rule violation. Infrastructure failures
// (connectivity, unexpected constraint errors) are never DomainErrors; they
// propagate as plain wrapped errors and callers must treat them as faults,
// not user input problems.
type ErrorKind string

const (
	// ErrNotFound – a referenced group, member, contribution or loan is absent.
	ErrNotFound ErrorKind = "not_found"
	// ErrForbidden – the actor is not allowed to perform the action.
	ErrForbidden ErrorKind = "forbidden"
	// ErrConflict – the action collides with existing state (duplicate
	// contribution, duplicate open loan, duplicate payment, full roster).
	ErrConflict ErrorKind = "conflict"
	// ErrInvalidRange – a week, term or amount is outside its allowed bounds.
	ErrInvalidRange ErrorKind = "invalid_range"
	// ErrIllegalState – the loan status does not permit the requested action.
	ErrIllegalState ErrorKind = "illegal_state"
)

// DomainError is a typed, user-facing rule violation. The message carries
// enough detail to render an actionable response (which rule failed and the
// offending or required value).
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string { return e.Message }

// NotFoundf builds a not-found domain error.
func NotFoundf(format string, args ...any) error {
	return &DomainError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbiddenf builds a forbidden domain error.
func Forbiddenf(format string, args ...any) error {
	return &DomainError{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds a conflict domain error.
func Conflictf(format string, args ...any) error {
	return &DomainError{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// OutOfRangef builds an invalid-range domain error.
func OutOfRangef(format string, args ...any) error {
	return &DomainError{Kind: ErrInvalidRange, Message: fmt.Sprintf(format, args...)}
}

// IllegalStatef builds an illegal-state-transition domain error.
func IllegalStatef(format string, args ...any) error {
	return &DomainError{Kind: ErrIllegalState, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ErrorKind from err. ok is false when err is not a
// domain error, i.e. an infrastructure fault.
func KindOf(err error) (ErrorKind, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

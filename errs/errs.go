package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an engine failure.
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindValidation     Kind = "validation"
	KindNotImplemented Kind = "not_implemented"
	KindInternal       Kind = "internal"
)

// Sentinel values matched by errors.Is for every *Error of the same kind.
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrValidation     = errors.New("validation failed")
	ErrNotImplemented = errors.New("not implemented")
	ErrInternal       = errors.New("internal error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	case KindValidation:
		return ErrValidation
	case KindNotImplemented:
		return ErrNotImplemented
	default:
		return ErrInternal
	}
}

// Error is a typed engine error.
type Error struct {
	Kind      Kind
	Op        string // operation, e.g. "approve"
	ContentID string // optional content the failure refers to
	Message   string
	Err       error // optional cause
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	if e.Message != "" {
		sb.WriteString(e.Message)
	} else {
		sb.WriteString(e.Kind.sentinel().Error())
	}
	if e.ContentID != "" {
		sb.WriteString(" (content ")
		sb.WriteString(e.ContentID)
		sb.WriteString(")")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap exposes the cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinel.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// NotFound reports an unknown id or content id.
func NotFound(op, contentID string) *Error {
	return &Error{Kind: KindNotFound, Op: op, ContentID: contentID, Message: "review item not found"}
}

// Conflict reports an illegal state transition.
func Conflict(op, contentID, format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Op: op, ContentID: contentID, Message: fmt.Sprintf(format, args...)}
}

// Validation reports missing or malformed input.
func Validation(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// NotImplemented reports an operation that is deliberately unsupported.
func NotImplemented(op string) *Error {
	return &Error{Kind: KindNotImplemented, Op: op, Message: "operation is not implemented"}
}

// Internal wraps an unexpected failure.
func Internal(op, contentID string, err error) *Error {
	return &Error{Kind: KindInternal, Op: op, ContentID: contentID, Message: "unexpected failure", Err: err}
}

// KindOf returns the kind of err; errors that are not *Error are Internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool       { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool       { return errors.Is(err, ErrConflict) }
func IsValidation(err error) bool     { return errors.Is(err, ErrValidation) }
func IsNotImplemented(err error) bool { return errors.Is(err, ErrNotImplemented) }

package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why an operation was rejected.
type Kind string

const (
	KindUnauthenticated      Kind = "unauthenticated"
	KindForbidden            Kind = "forbidden"
	KindNotFound             Kind = "not_found"
	KindInvalidTransition    Kind = "invalid_transition"
	KindProfileIncomplete    Kind = "profile_incomplete"
	KindProjectUnavailable   Kind = "project_unavailable"
	KindDuplicateApplication Kind = "duplicate_application"
	KindInvalid              Kind = "invalid"
	KindInternal             Kind = "internal"
)

// Error is returned by every engine operation. Message names the
// precondition that failed.
type Error struct {
	Kind    Kind
	Message string
	// Missing lists incomplete profile fields for KindProfileIncomplete.
	Missing []string
	// Fields maps field names to problems for KindInvalid.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Message
	if len(e.Missing) > 0 {
		msg += " (missing: " + strings.Join(e.Missing, ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err. Errors that did not come from the engine
// are KindInternal; nil has no kind.
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

func unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: "no authenticated account"}
}

func forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func invalidTransition(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func profileIncomplete(missing []string) *Error {
	return &Error{
		Kind:    KindProfileIncomplete,
		Message: "profile must be completed before applying",
		Missing: missing,
	}
}

func projectUnavailable() *Error {
	return &Error{Kind: KindProjectUnavailable, Message: "project is not open for applications"}
}

func duplicateApplication() *Error {
	return &Error{Kind: KindDuplicateApplication, Message: "an application for this project already exists"}
}

func invalid(fields map[string]string) *Error {
	return &Error{Kind: KindInvalid, Message: "invalid project fields", Fields: fields}
}

func internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: "failed to " + op, Err: err}
}

// storeError maps a store failure onto an engine error. lost is the message
// used when a conditional write lost a race.
func storeError(op string, err error, lost string) error {
	var e *Error
	switch {
	case errors.As(err, &e):
		return e
	case errors.Is(err, ErrStaleStatus):
		return invalidTransition("%s", lost)
	default:
		return internal(op, err)
	}
}

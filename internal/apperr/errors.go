// Package apperr defines the error taxonomy shared across the abandonment
// pipeline. No component uses panics or exceptions for control flow; every
// failure carries a Kind and a human-readable message.
package apperr

import "fmt"

// Kind classifies a failure the way spec.md §7 enumerates them.
type Kind string

const (
	// KindValidation means a request field violated a stated bound. Not
	// retried by the core.
	KindValidation Kind = "validation_error"
	// KindNotFound means a keyed lookup (e.g. customer profile) missed.
	KindNotFound Kind = "not_found"
	// KindStoreUnavailable means the document store IO failed. The core
	// never retries; that is an orchestrator concern.
	KindStoreUnavailable Kind = "store_unavailable"
)

// Error is the single error type returned by every exported operation in this
// module. DispatchSkipped is deliberately NOT a Kind here: spec.md calls it a
// non-error outcome, so it is represented as a result value instead (see
// internal/domain/dispatch).
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, apperr.NotFound) etc. work against the sentinel
// values below, matching on Kind rather than identity.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is comparisons; callers compare kind, not message.
var (
	NotFound         = &Error{Kind: KindNotFound}
	Validation       = &Error{Kind: KindValidation}
	StoreUnavailable = &Error{Kind: KindStoreUnavailable}
)

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func ValidationErrorf(format string, args ...any) *Error {
	return Newf(KindValidation, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return Newf(KindNotFound, format, args...)
}

func StoreUnavailablef(err error, format string, args ...any) *Error {
	return Wrap(KindStoreUnavailable, err, format, args...)
}

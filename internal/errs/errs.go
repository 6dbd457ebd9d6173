// Package errs contains the error taxonomy shared across layers for stable error mapping.
package errs

import "errors"

// Kind sentinels. Services wrap these so the HTTP layer can map kinds to
// status codes with errors.Is without inspecting message text.
var (
	// ErrValidation indicates caller-supplied data violated a precondition.
	ErrValidation = errors.New("validation")

	// ErrUnauthorized indicates a failed credential, token, or CSRF check.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (username/email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrInternal indicates an unexpected fault; details stay server-side.
	ErrInternal = errors.New("internal")
)

// Error carries a kind sentinel and a client-visible message.
// The message is safe to return to callers; anything more specific
// (which credential check failed, which CSRF half was missing) is
// logged server-side only.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Unwrap lets errors.Is match the kind sentinel.
func (e *Error) Unwrap() error { return e.kind }

// Validation builds a caller-fixable precondition failure.
func Validation(msg string) *Error { return &Error{kind: ErrValidation, msg: msg} }

// Unauthorized builds a uniform authentication/authorization denial.
func Unauthorized(msg string) *Error { return &Error{kind: ErrUnauthorized, msg: msg} }

// NotFound builds a missing-entity failure.
func NotFound(msg string) *Error { return &Error{kind: ErrNotFound, msg: msg} }

// Internal builds an opaque internal fault.
func Internal(msg string) *Error { return &Error{kind: ErrInternal, msg: msg} }

package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionInvalid is reported by the session store for unknown, revoked or expired tokens.
	ErrSessionInvalid = errors.New("session invalid")
	// ErrForbidden indicates a valid session without the required permission.
	ErrForbidden = errors.New("forbidden")
	// ErrNoBranchScope indicates a branch-bound session without a branch.
	ErrNoBranchScope = errors.New("session has no branch scope")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// UserError carries a message that is safe to show to the caller. Key is one
// of the Msg* catalog keys or another constant format string.
type UserError struct {
	Key  string
	Args []any
	Err  error
}

func (e *UserError) Error() string {
	return fmt.Sprintf(e.Key, e.Args...)
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError wraps a caller-facing message.
func NewUserError(key string, args ...any) error {
	return &UserError{Key: key, Args: args}
}

// Rejected wraps a business rejection reported by a stored procedure. The
// procedure's own message is kept for the translator to inspect.
type Rejected struct {
	Procedure string
	Message   string
}

func (e *Rejected) Error() string {
	return e.Procedure + ": " + e.Message
}

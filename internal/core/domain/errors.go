package domain

import (
	"errors"
	"fmt"
)

// Authentication and authorization outcomes. ErrUnauthenticated and
// ErrForbidden must stay distinct all the way to the transport layer.
var (
	ErrUnauthenticated         = errors.New("unauthenticated")
	ErrForbidden               = errors.New("access forbidden")
	ErrRoleMismatch            = errors.New("role not permitted for this action")
	ErrSelfModificationBlocked = errors.New("admins cannot delete or deactivate their own account")
	ErrAccountInactive         = errors.New("account is not active")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrTooManyAttempts         = errors.New("too many login attempts")
)

// Resource and state outcomes.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInconsistentState = errors.New("inconsistent state: dangling parent reference")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidInput      = errors.New("invalid input")
	ErrWeakPassword      = fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	ErrPasswordTooLong   = fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, MaxPasswordLength)
	ErrCrypto            = errors.New("crypto failure")
)

// Conflict-class errors raised by store-level unique constraints.
var (
	ErrEmailTaken           = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrDuplicateApplication = fmt.Errorf("%w: application already submitted for this job", ErrConflict)
	ErrDuplicateSavedJob    = fmt.Errorf("%w: job already saved", ErrConflict)
	ErrDuplicateChat        = fmt.Errorf("%w: direct chat already exists", ErrConflict)
)

// Password policy enforced before hashing. The minimum counts characters;
// the maximum counts bytes because bcrypt rejects anything longer.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// SessionFailure is the internal reason a token was rejected. It is kept for
// logs and metrics only; callers see ErrUnauthenticated.
type SessionFailure string

const (
	SessionMalformed        SessionFailure = "malformed"
	SessionExpired          SessionFailure = "expired"
	SessionSignatureInvalid SessionFailure = "signature_invalid"
)

// SessionError reports why a raw session token failed validation.
type SessionError struct {
	Reason SessionFailure
	Err    error
}

func (e *SessionError) Error() string {
	if e.Err == nil {
		return "session " + string(e.Reason)
	}
	return fmt.Sprintf("session %s: %v", e.Reason, e.Err)
}

// Unwrap exposes the parser error for logging.
func (e *SessionError) Unwrap() error {
	return e.Err
}

// Is makes every SessionError match ErrUnauthenticated.
func (e *SessionError) Is(target error) bool {
	return target == ErrUnauthenticated
}

// SessionFailureOf extracts the internal rejection reason from err, if any.
func SessionFailureOf(err error) (SessionFailure, bool) {
	var se *SessionError
	if errors.As(err, &se) {
		return se.Reason, true
	}
	return "", false
}

// CryptoError is a fatal failure of a hashing or signing primitive.
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("crypto %s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// Is makes every CryptoError match ErrCrypto.
func (e *CryptoError) Is(target error) bool {
	return target == ErrCrypto
}

// Package apperr holds the error taxonomy shared by the services, the auth
// gate and the HTTP handlers. Every error a client may see is an *Error with
// a Kind; the HTTP layer maps kinds to status codes in one place.
package apperr

import "errors"

// Kind classifies an error for status mapping.
type Kind int

const (
	KindServer          Kind = iota // unexpected failure or deployment defect
	KindUnauthenticated             // missing, malformed, invalid or expired credentials
	KindForbidden                   // authenticated but not allowed
	KindValidation                  // missing or malformed input
	KindNotFound                    // missing resource
	KindConflict                    // uniqueness violation
	KindTooManyRequests             // rate limited
)

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`             // JSON field name
	Rule    string `json:"rule"`              // Failed rule
	Message string `json:"message,omitempty"` // Human readable reason
}

// Error is a client-facing error. Message and Fields are safe to return
// verbatim; Err is the internal cause and is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinel errors by kind and message so wrapped copies created by
// Wrap still compare equal to the sentinel they came from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation is a shorthand for field-level input errors.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Wrap attaches an internal cause to a sentinel.
func Wrap(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Err: cause}
}

// WithFields attaches per-field details to a sentinel.
func WithFields(sentinel *Error, fields []FieldError) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Fields: fields}
}

// Internal wraps an unexpected failure. The cause never reaches the client.
func Internal(cause error) *Error {
	return &Error{Kind: KindServer, Message: "internal server error", Err: cause}
}

// KindOf returns the kind of err, KindServer for anything that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindServer
}

// Auth gate
var (
	ErrUnauthenticated    = New(KindUnauthenticated, "missing token")
	ErrBadTokenFormat     = New(KindUnauthenticated, "bad token format")
	ErrInvalidToken       = New(KindUnauthenticated, "invalid token")
	ErrTokenExpired       = New(KindUnauthenticated, "token expired")
	ErrUserNotFound       = New(KindNotFound, "user not found")
	ErrForbidden          = New(KindForbidden, "you are not allowed to perform this action")
	ErrAdminRequired      = New(KindForbidden, "admin role required")
	ErrInvalidCredentials = New(KindUnauthenticated, "invalid email or password")
)

// Registration, profile and admin user management
var (
	ErrEmailTaken                = New(KindConflict, "email is already registered")
	ErrUsernameTaken             = New(KindConflict, "username is already taken")
	ErrDuplicateUser             = New(KindConflict, "username or email is already in use")
	ErrRoleRegistryUninitialized = New(KindServer, "default 'user' role not found")
	ErrInvalidCurrencyCode       = New(KindValidation, "currency must be a 3-letter code")
	ErrInvalidRole               = New(KindValidation, "invalid role")
	ErrSelfDelete                = New(KindForbidden, "you cannot delete your own account")
)

// ErrInvalidBody is returned when a request body cannot be bound.
var ErrInvalidBody = New(KindValidation, "invalid request body")

// Transactions
var (
	ErrTransactionNotFound = New(KindNotFound, "transaction not found")
	ErrInvalidDateFormat   = New(KindValidation, "invalid date format, ISO 8601 required (e.g. '2025-11-04T10:30:00Z')")
	ErrInvalidPeriod       = New(KindValidation, "month must be between 0 and 12 and year must be positive")
)

// ErrTooManyRequests is returned by the rate limiter.
var ErrTooManyRequests = New(KindTooManyRequests, "too many requests, please try again shortly")

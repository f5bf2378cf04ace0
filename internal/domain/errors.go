package domain

import "errors"

// ErrorKind classifies failures so the transport layer can map them once.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindDuplicateIdentity
	KindInvalidCredentials
	KindUnauthenticated
	KindForbidden
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindDuplicateIdentity:
		return "duplicate_identity"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is a classified domain failure. Message is safe to show to callers,
// Err carries the internal cause and is only meant for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so wrapped copies of the sentinels
// below still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// WithCause returns a copy of e carrying cause.
func (e *Error) WithCause(cause error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: cause}
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation builds a KindValidation error with a caller-facing message.
func Validation(message string) *Error {
	return NewError(KindValidation, message)
}

var (
	ErrUserNotFound       = NewError(KindNotFound, "user not found")
	ErrTaskNotFound       = NewError(KindNotFound, "task not found")
	ErrDuplicateIdentity  = NewError(KindDuplicateIdentity, "email already registered")
	ErrInvalidCredentials = NewError(KindInvalidCredentials, "invalid email or password")
	ErrUnauthenticated    = NewError(KindUnauthenticated, "invalid authentication token")
	ErrForbidden          = NewError(KindForbidden, "access forbidden")
)

// KindOf reports the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

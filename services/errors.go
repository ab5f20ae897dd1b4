package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure surfaced by a service operation
type ErrorKind int

const (
	// KindValidation is a malformed input shape, checked before any lookup
	KindValidation ErrorKind = iota + 1
	// KindNotFound is a missing entity or one outside the requester's visible scope
	KindNotFound
	// KindUnauthorized is a requester lacking the required relationship
	KindUnauthorized
	// KindBusinessRule is a well-formed request that breaks a domain rule
	KindBusinessRule
	// KindStorage is a persistence failure
	KindStorage
	// KindConflict is a uniqueness violation such as a duplicate email
	KindConflict
	// KindUnauthenticated is a failed credential check
	KindUnauthenticated
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindBusinessRule:
		return "business_rule"
	case KindStorage:
		return "storage"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every service operation
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Field   string
	Err     error // underlying cause, never shown to callers
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError reports malformed input on field
func ValidationError(code, message, field string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message, Field: field}
}

// NotFoundError reports a missing or out-of-scope entity
func NotFoundError(code, message, field string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message, Field: field}
}

// UnauthorizedError reports a missing relationship between requester and target
func UnauthorizedError(message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: "FORBIDDEN", Message: message}
}

// BusinessRuleError reports a violated domain rule
func BusinessRuleError(code, message, field string) *Error {
	return &Error{Kind: KindBusinessRule, Code: code, Message: message, Field: field}
}

// ConflictError reports a uniqueness violation
func ConflictError(code, message, field string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message, Field: field}
}

// UnauthenticatedError reports rejected credentials
func UnauthenticatedError(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Code: "INVALID_CREDENTIALS", Message: message}
}

// StorageError wraps a persistence failure behind a generic message
func StorageError(op string, err error) *Error {
	return &Error{Kind: KindStorage, Code: "DATABASE_ERROR", Message: "Server error", Err: fmt.Errorf("%s: %w", op, err)}
}

// KindOf returns the kind of err, or KindStorage for errors that did not come from a service
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindStorage
}

// IsKind reports whether err is a service error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var svcErr *Error
	return errors.As(err, &svcErr) && svcErr.Kind == kind
}

// Package apperrors defines the typed error taxonomy shared across the
// store, search, watcher, and tool layers.
package apperrors

import (
	"fmt"
	"time"
)

// Kind identifies one of the fixed error categories from the tool-layer
// taxonomy. Every error that crosses a component boundary carries one.
type Kind string

const (
	KindValidation     Kind = "ValidationError"
	KindNotFound       Kind = "NotFound"
	KindDuplicate      Kind = "Duplicate"
	KindUnsupportedType Kind = "UnsupportedType"
	KindTooLarge       Kind = "TooLarge"
	KindParseFailed    Kind = "ParseFailed"
	KindEmptyContent   Kind = "EmptyContent"
	KindInvalidQuery   Kind = "InvalidQuery"
	KindInvalidInput   Kind = "InvalidInput"
	KindStoreFailed    Kind = "StoreFailed"
	KindTimeout        Kind = "TimeoutError"
	KindInternal       Kind = "InternalError"
)

// Error is the shared typed error. It carries enough context to be logged
// usefully while still reducing to a single-line message at the transport
// boundary, mirroring the DocumentStoreError shape the store errors are
// modeled on.
type Error struct {
	Kind      Kind
	Component string
	Operation string
	Message   string
	Err       error
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s.%s: %s: %v", e.Kind, e.Component, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s.%s: %s", e.Kind, e.Component, e.Operation, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error, stamping the current time.
func New(kind Kind, component, operation, message string, cause error) *Error {
	return &Error{
		Kind:      kind,
		Component: component,
		Operation: operation,
		Message:   message,
		Err:       cause,
		Timestamp: time.Now(),
	}
}

// KindOf extracts the Kind from err if it is (or wraps) an *Error,
// defaulting to KindInternal for anything unrecognized.
func KindOf(err error) Kind {
	var appErr *Error
	if asError(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func NotFound(component, operation, message string) *Error {
	return New(KindNotFound, component, operation, message, nil)
}

func Duplicate(component, operation, message string) *Error {
	return New(KindDuplicate, component, operation, message, nil)
}

func Validation(component, operation, message string) *Error {
	return New(KindValidation, component, operation, message, nil)
}

func StoreFailed(component, operation, message string, cause error) *Error {
	return New(KindStoreFailed, component, operation, message, cause)
}

func Internal(component, operation, message string, cause error) *Error {
	return New(KindInternal, component, operation, message, cause)
}

// Package errors defines typed application errors and their HTTP mapping.
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"
)

// Kind classifies application failures for consistent HTTP mapping.
type Kind string

const (
	KindInternal     Kind = "internal"
	KindInvalidInput Kind = "invalid_input"
	KindNotFound     Kind = "not_found"
)

const internalMessage = "internal server error"

// Error is a typed application failure.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error renders the internal message, including the cause when present.
func (e Error) Error() string {
	message := e.Message
	if message == "" {
		message = string(e.Kind)
	}
	if e.Cause != nil {
		return message + ": " + e.Cause.Error()
	}
	return message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e Error) Unwrap() error {
	return e.Cause
}

// BadRequest builds an invalid input error whose message is echoed to callers.
func BadRequest(message string) error {
	return Error{Kind: KindInvalidInput, Message: message}
}

// NotFound builds a missing-record error.
func NotFound(message string) error {
	return Error{Kind: KindNotFound, Message: message}
}

// Internal builds an unclassified failure. Message and cause stay server-side.
func Internal(message string, cause error) error {
	return Error{Kind: KindInternal, Message: message, Cause: cause}
}

// KindOf returns the error kind, treating untyped errors as internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return KindInternal
	}
	return appErr.Kind
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch KindOf(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to API callers.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return internalMessage
	}
	message := strings.TrimSpace(appErr.Message)
	switch appErr.Kind {
	case KindInvalidInput:
		if message == "" {
			return "bad request"
		}
		return "bad request: " + message
	case KindNotFound:
		if message == "" {
			return "not found"
		}
		return message
	default:
		return internalMessage
	}
}

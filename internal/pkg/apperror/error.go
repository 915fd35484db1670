package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error
type Code string

const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeRepository   Code = "REPOSITORY_ERROR"
	CodeInvalidInput Code = "INVALID_INPUT"
)

// InternalMessage is the only text clients see for server-side failures
const InternalMessage = "Internal server error"

// Error is a domain error carrying a code, a client-facing message and an optional cause
type Error struct {
	Code    Code
	Message string
	Err     error
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

// New creates an error without a cause
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error that keeps err as its cause
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// NotFound creates a NOT_FOUND error
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// Validation creates a VALIDATION_ERROR error
func Validation(message string) *Error {
	return New(CodeValidation, message)
}

// Repository wraps a storage failure as REPOSITORY_ERROR
func Repository(message string, err error) *Error {
	return Wrap(CodeRepository, message, err)
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given code
func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// HTTPStatus maps err to a status code and the message safe to return to the client
func HTTPStatus(err error) (int, string) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, InternalMessage
	}

	switch appErr.Code {
	case CodeNotFound:
		return http.StatusNotFound, appErr.Message
	case CodeValidation, CodeInvalidInput:
		return http.StatusBadRequest, appErr.Message
	default:
		return http.StatusInternalServerError, InternalMessage
	}
}

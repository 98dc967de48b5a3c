package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure. Clients switch on it, so values are stable.
type Code string

const (
	CodeInvalidInput        Code = "INVALID_INPUT"
	CodeInvalidPhone        Code = "INVALID_PHONE"
	CodeUnauthenticated     Code = "UNAUTHENTICATED"
	CodeTokenExpired        Code = "TOKEN_EXPIRED"
	CodeInvalidToken        Code = "INVALID_TOKEN"
	CodeForbidden           Code = "FORBIDDEN"
	CodeNotFound            Code = "NOT_FOUND"
	CodeOTPNotFound         Code = "OTP_NOT_FOUND"
	CodeOTPExpired          Code = "OTP_EXPIRED"
	CodeOTPMismatch         Code = "OTP_MISMATCH"
	CodeOTPAttemptsExceeded Code = "OTP_ATTEMPTS_EXCEEDED"
	CodeConflict            Code = "CONFLICT"
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeUpstream            Code = "UPSTREAM"
	CodeUnexpected          Code = "UNEXPECTED"
)

// GenericMessage is what clients see for UPSTREAM and UNEXPECTED failures.
const GenericMessage = "Something went wrong, please try again"

// Error is the application error carried from services to the HTTP layer.
type Error struct {
	Code    Code
	Message string
	Details map[string]string
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

// Is matches another *Error by code so errors.Is(err, apperrors.New(CodeNotFound, "")) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Internal wraps an unexpected store or runtime failure.
func Internal(err error) *Error {
	return &Error{Code: CodeUnexpected, Message: GenericMessage, Err: err}
}

// Upstream wraps a failure of an external collaborator (SMS, payment provider, cache).
func Upstream(err error) *Error {
	return &Error{Code: CodeUpstream, Message: GenericMessage, Err: err}
}

// From converts any error into an *Error. Unknown errors become UNEXPECTED.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// CodeOf returns the code of err, or an empty code for nil.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	return From(err).Code
}

// HTTPStatus maps a code to the response status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeInvalidPhone, CodeOTPNotFound, CodeOTPExpired,
		CodeOTPMismatch, CodeOTPAttemptsExceeded, CodeConflict:
		return http.StatusBadRequest
	case CodeUnauthenticated, CodeTokenExpired, CodeInvalidToken:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// IsServerSide reports whether the code hides its detail from clients.
func IsServerSide(code Code) bool {
	return code == CodeUpstream || code == CodeUnexpected
}

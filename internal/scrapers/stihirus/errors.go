package stihirus

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrInvalidInput
	ErrNotFound
	ErrNetwork
	ErrUpstream
	ErrParsing
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidInput:
		return "invalid_input"
	case ErrNotFound:
		return "not_found"
	case ErrNetwork:
		return "network_error"
	case ErrUpstream:
		return "upstream_error"
	case ErrParsing:
		return "parsing_error"
	default:
		return "unknown_error"
	}
}

// Error is the only error type components in this package return. Kind
// decides the public code, StatusCode is the upstream http status when one
// was received, Cause keeps the underlying failure for diagnostics.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Code maps the error to the numeric code exposed to callers.
func (e *Error) Code() int {
	switch e.Kind {
	case ErrInvalidInput:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrNetwork:
		return http.StatusServiceUnavailable
	case ErrUpstream:
		if e.StatusCode != 0 {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func invalidInput(format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func notFound(cause error, format string, args ...any) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func networkError(cause error, format string, args ...any) *Error {
	return &Error{Kind: ErrNetwork, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func upstreamError(statusCode int, cause error, format string, args ...any) *Error {
	return &Error{Kind: ErrUpstream, Message: fmt.Sprintf(format, args...), StatusCode: statusCode, Cause: cause}
}

func parsingError(cause error, format string, args ...any) *Error {
	return &Error{Kind: ErrParsing, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the kind of the first *Error in err's chain, ErrUnknown if
// there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrUnknown
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

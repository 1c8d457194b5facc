package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed request.
type ErrorKind int

const (
	// KindNetwork means no response was received.
	KindNetwork ErrorKind = iota
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP
	// KindRequest means the request was never dispatched: it could not be
	// built or a request interceptor rejected it.
	KindRequest
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Error is the normalized failure returned by every request method.
type Error struct {
	Kind       ErrorKind
	Message    string
	Status     int
	StatusText string
	Data       interface{}
	Header     http.Header
	Method     string
	URL        string
	Err        error
}

// Error implements error.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func newHTTPError(method, url string, resp *TransportResponse) *Error {
	return &Error{
		Kind:       KindHTTP,
		Message:    fmt.Sprintf("request failed with status code %d", resp.Status),
		Status:     resp.Status,
		StatusText: resp.StatusText,
		Data:       resp.Data,
		Header:     resp.Header,
		Method:     method,
		URL:        url,
	}
}

func newNetworkError(method, url string, err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: err.Error(),
		Method:  method,
		URL:     url,
		Err:     err,
	}
}

func newRequestError(method, url string, err error) *Error {
	return &Error{
		Kind:    KindRequest,
		Message: err.Error(),
		Method:  method,
		URL:     url,
		Err:     err,
	}
}

// AsError extracts the *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsNetworkError reports whether err is a request that got no response.
func IsNetworkError(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindNetwork
}

// IsHTTPError reports whether err is a non-2xx response.
func IsHTTPError(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindHTTP
}

// StatusCode returns the response status carried by err, or zero.
func StatusCode(err error) int {
	if e, ok := AsError(err); ok {
		return e.Status
	}
	return 0
}

package apiclient

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

const (
	// DefaultErrorMessage is used when a failed response carries no detail.
	DefaultErrorMessage = "An error occurred"
	// DefaultTransportMessage is used when a transport failure has no message.
	DefaultTransportMessage = "Network error"
)

// ErrorKind classifies an APIError.
type ErrorKind int

const (
	// KindTransport means no response was obtained.
	KindTransport ErrorKind = iota + 1
	// KindStatus means the server answered with a non-2xx status.
	KindStatus
	// KindEncoding means the request could not be built or the response body could not be parsed.
	KindEncoding
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindEncoding:
		return "encoding"
	default:
		return "unknown"
	}
}

// APIError is the single error value returned by every failed client call.
// Status is zero when no HTTP response was obtained.
type APIError struct {
	Kind    ErrorKind
	Message string
	Status  int
	Data    any
	Err     error
}

// Error returns the message, which for status errors is the server supplied detail.
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *APIError) Unwrap() error {
	return e.Err
}

// HasStatus reports whether the error carries an HTTP status code.
func (e *APIError) HasStatus() bool {
	return e.Status != 0
}

func newTransportError(err error) *APIError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = DefaultTransportMessage
	}
	return &APIError{
		Kind:    KindTransport,
		Message: msg,
		Err:     err,
	}
}

func newEncodingError(while string, err error) *APIError {
	return &APIError{
		Kind:    KindEncoding,
		Message: fmt.Sprintf("%s: %v", while, err),
		Err:     err,
	}
}

func newStatusError(r *Result) *APIError {
	msg := DefaultErrorMessage
	if r.Kind == ResultJSON {
		if detail := gjson.GetBytes(r.raw, "detail"); detail.Exists() && detail.Type != gjson.Null {
			if s := detail.String(); s != "" {
				msg = s
			}
		}
	}
	return &APIError{
		Kind:    KindStatus,
		Message: msg,
		Status:  r.StatusCode,
		Data:    r.Value(),
	}
}

// AsAPIError returns the APIError in err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsTransport reports whether err is a failure to obtain any response.
func IsTransport(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindTransport
}

package graphql

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassNetwork represents transport failures (DNS, connect, timeout).
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassClient represents 4xx responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassGraphQL represents a response carrying a non-empty errors list.
	ErrorClassGraphQL ErrorClass = "graphql"

	// ErrorClassDecode represents a response body that is not a GraphQL envelope.
	ErrorClassDecode ErrorClass = "decode"
)

// Common errors returned by the client.
var (
	// ErrMalformedData is returned when the data field does not match the
	// shape of the caller's result type.
	ErrMalformedData = errors.New("malformed response data")
)

// RequestError represents a failed GraphQL request with additional context.
type RequestError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("graphql %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("graphql %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Location is a position in the query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error is one entry of a GraphQL response's errors list.
type Error struct {
	Message   string     `json:"message"`
	Path      []any      `json:"path,omitempty"`
	Locations []Location `json:"locations,omitempty"`
}

// Error implements the error interface.
func (e Error) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Path))
	for i, p := range e.Path {
		parts[i] = fmt.Sprint(p)
	}
	return fmt.Sprintf("%s (path: %s)", e.Message, strings.Join(parts, "."))
}

// Errors is the errors list of a GraphQL response.
type Errors []Error

// Error implements the error interface.
func (e Errors) Error() string {
	switch len(e) {
	case 0:
		return "no graphql errors"
	case 1:
		return e[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", e[0].Error(), len(e)-1)
	}
}

// ClassOf returns the ErrorClass of err, or "" if err is not a RequestError.
func ClassOf(err error) ErrorClass {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.ErrorClass
	}
	return ""
}

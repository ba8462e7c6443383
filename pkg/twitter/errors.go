package twitter

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedMethod is returned for verbs other than GET, POST and DELETE.
	ErrUnsupportedMethod = errors.New("unsupported http method")
	// ErrUnknownEndpoint is returned when an endpoint id is not in the catalog.
	ErrUnknownEndpoint = errors.New("unknown endpoint")
	// ErrArguments is returned when a request does not match the endpoint's template or args.
	ErrArguments = errors.New("invalid endpoint arguments")
)

// TransportError wraps a failure reported by the signed transport.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a response body that is not valid JSON.
type DecodeError struct {
	Event   string
	Snippet string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("decode %s response: %v", e.Event, e.Err)
	}
	return fmt.Sprintf("decode %s response: %v (body: %s)", e.Event, e.Err, e.Snippet)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func bodySnippet(body []byte) string {
	const maxLen = 256
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

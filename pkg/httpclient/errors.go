package httpclient

import (
	"fmt"
	"strings"
)

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http response status %d: %s", e.StatusCode, Snippet(e.Body, 512))
}

// Snippet trims body to at most maxLen bytes for logs and error messages.
func Snippet(body []byte, maxLen int) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "<empty>"
	}
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

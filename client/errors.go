package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrConnection matches every *ConnectionError.
var ErrConnection = errors.New("error connecting to server")

// HTTPError represents a non-2xx HTTP response.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

// IsNotFound returns true if the error represents a 404 response.
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// ConnectionError is a transport-level failure: DNS, TLS, refused or reset
// connections, timeouts. It matches ErrConnection and unwraps to the cause.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrConnection, e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() []error {
	return []error{ErrConnection, e.Err}
}

package amazonmusic

import (
	"errors"
	"fmt"
)

// ErrFetchTimeout is returned when a page does not respond within the configured timeout
var ErrFetchTimeout = errors.New("amazon music page request timed out")

// ConfigError reports invalid client options
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

// HTTPError is returned for any non-2xx page response
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}

// NetworkError wraps transport-level failures
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

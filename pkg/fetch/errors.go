package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrInvalidRequest marks input that cannot be turned into an HTTP request.
var ErrInvalidRequest = errors.New("invalid request")

// HTTPError is returned when the upstream responded with a non-2xx status.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}

// TransportError wraps network-level failures, including timeouts.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err was caused by an elapsed deadline, either
// from the request context or the underlying transport.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsUpstreamError reports whether err came from talking to the target site
// (status, transport or timeout failure), as opposed to an internal fault.
func IsUpstreamError(err error) bool {
	var httpErr *HTTPError
	var transportErr *TransportError
	return errors.As(err, &httpErr) || errors.As(err, &transportErr)
}

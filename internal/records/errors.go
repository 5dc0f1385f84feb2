package records

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
)

var (
	// ErrNoConnectivity is returned once network retries are exhausted.
	ErrNoConnectivity = errors.New("no internet connection, please check your network and try again")

	// ErrMalformedRecord marks a record that cannot be normalized into a trade.
	ErrMalformedRecord = errors.New("malformed trade record")
)

// StatusError is returned for any non-200 response. It is never retried.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// isNetworkError reports whether err is a transient transport failure worth
// retrying: refused or reset connections, DNS failures, timeouts and dropped
// connections.
func isNetworkError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "network error") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection failed")
}

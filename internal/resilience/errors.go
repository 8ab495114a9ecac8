package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// TransientError marks an error as safe to retry (navigation timeout, DNS
// failure, connection reset).
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps an error as explicitly retryable.
func Transient(err error) *TransientError {
	return &TransientError{Err: err}
}

// IsTransient reports whether the error looks like a passing fetch failure.
// Covers explicit TransientError wraps, network timeouts, connection errors,
// and the message patterns headless-browser navigation produces for DNS, TLS,
// and load failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	// Message heuristics for errors surfaced by the browser engine, which
	// arrive as strings rather than typed net errors.
	msg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"context deadline exceeded",
		"navigation timeout",
		"net::err_name_not_resolved",
		"net::err_connection_timed_out",
		"net::err_connection_reset",
		"net::err_connection_refused",
		"net::err_cert",
		"net::err_timed_out",
		"connection reset by peer",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
	}
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}

package httpserver

import "errors"

var (
	// ErrServerFailed is returned when the listener fails to start or serve.
	ErrServerFailed = errors.New("httpserver: server failed")

	// ErrShutdownFailed is returned when graceful shutdown does not complete
	// within the configured timeout.
	ErrShutdownFailed = errors.New("httpserver: shutdown failed")
)

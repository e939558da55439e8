// Package logger builds slog.Logger instances configured from the
// environment, with a handler decorator that injects request-scoped
// attributes (tenant id, request id) from the context on every log call.
package logger

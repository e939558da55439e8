// Package httpserver wraps the standard http.Server with environment-driven
// configuration and graceful, signal-aware shutdown.
package httpserver

// Package core holds the HTTP error vocabulary and JSON response helpers
// shared by every module's handlers.
package core

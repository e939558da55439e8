package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromRequest returns the client IP for an HTTP request, preferring proxy
// headers over the raw remote address:
//
//  1. X-Forwarded-For (first valid entry)
//  2. X-Real-IP
//  3. RemoteAddr
//
// Invalid or spoofed-looking values fall through to the next source so the
// result is always a parseable IP or empty.
func FromRequest(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for entry := range strings.SplitSeq(forwarded, ",") {
			if ip := normalize(strings.TrimSpace(entry)); ip != "" {
				return ip
			}
		}
	}

	if ip := normalize(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

// normalize validates the address and returns its canonical form, or empty
// when the input is not an IP.
func normalize(s string) string {
	s = strings.Trim(s, "[]")
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}

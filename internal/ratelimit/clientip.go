package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// ClientIdentifier derives the limiter partition key for a request.
// Order: first X-Forwarded-For entry, then X-Real-IP, then the RemoteAddr
// host, then the literal "unknown". No authenticated identity is used, so
// clients behind a shared NAT or proxy count against the same key.
func ClientIdentifier(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}

	if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" {
		return rip
	}

	if r.RemoteAddr != "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}

	return "unknown"
}

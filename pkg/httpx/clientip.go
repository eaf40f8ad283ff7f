package httpx

import (
	"net"
	"net/http"
	"strings"
)

// ClientOrigin resolves the client address for a request. Behind a reverse
// proxy the transport peer is the proxy, so the first X-Forwarded-For entry
// takes precedence, then X-Real-IP, then the raw peer address.
func ClientOrigin(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

package web

import (
	"net"
	"net/http"
	"strings"
)

// TrustOneProxy applies the X-Forwarded-For, X-Forwarded-Proto and
// X-Forwarded-Host values appended by a single reverse proxy. Only the
// rightmost entry of each header is used: everything to its left came from
// the client and is ignored.
func TrustOneProxy(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ip := lastForwarded(r.Header, "X-Forwarded-For"); ip != "" && net.ParseIP(ip) != nil {
			r.RemoteAddr = ip
		}
		if proto := strings.ToLower(lastForwarded(r.Header, "X-Forwarded-Proto")); proto == "http" || proto == "https" {
			r.URL.Scheme = proto
		}
		if host := lastForwarded(r.Header, "X-Forwarded-Host"); host != "" {
			r.Host = host
		}
		next.ServeHTTP(w, r)
	})
}

// lastForwarded returns the rightmost comma-separated value over all
// occurrences of header.
func lastForwarded(h http.Header, header string) string {
	values := h.Values(header)
	if len(values) == 0 {
		return ""
	}
	last := values[len(values)-1]
	if i := strings.LastIndexByte(last, ','); i >= 0 {
		last = last[i+1:]
	}
	return strings.TrimSpace(last)
}

// isHTTPS reports whether the client reached us over TLS, directly or
// through the trusted proxy.
func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || r.URL.Scheme == "https"
}

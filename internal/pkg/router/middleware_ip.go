package router

import (
	"net"
	"net/http"
	"strings"
)

// middlewareIP rewrites RemoteAddr to the client address reported by the
// first trusted proxy header that parses as an IP.
func middlewareIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ip := clientIP(r); ip != "" {
			r.RemoteAddr = ip
		}
		next.ServeHTTP(w, r)
	})
}

var clientIPHeaders = []string{"True-Client-IP", "X-Real-IP", "X-Forwarded-For"}

func clientIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		v := r.Header.Get(header)
		if v == "" {
			continue
		}
		v, _, _ = strings.Cut(v, ",")
		if v = strings.TrimSpace(v); net.ParseIP(v) != nil {
			return v
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return ""
}

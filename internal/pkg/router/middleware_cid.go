package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	"github.com/shandysiswandi/paydota/internal/pkg/uid"
)

const (
	// HeaderCorrelationID carries the correlation ID in and out of the service.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is accepted as a fallback from proxies that set it.
	HeaderRequestID = "X-Request-ID"

	maxCorrelationIDLen = 128
)

// cleanCorrelationID rejects header-injection attempts and clamps length.
func cleanCorrelationID(v string) string {
	if strings.ContainsAny(v, "\r\n") {
		return ""
	}
	v = strings.TrimSpace(v)
	if len(v) > maxCorrelationIDLen {
		v = v[:maxCorrelationIDLen]
	}
	return v
}

func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cID := cleanCorrelationID(r.Header.Get(HeaderCorrelationID))
			if cID == "" {
				cID = cleanCorrelationID(r.Header.Get(HeaderRequestID))
			}
			if cID == "" && gen != nil {
				cID = gen.Generate()
			}

			if cID != "" {
				w.Header().Set(HeaderCorrelationID, cID)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cID))
			}

			next.ServeHTTP(w, r)
		})
	}
}

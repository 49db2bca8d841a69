package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/davidbz/hearth/internal/observability"
)

// Trace creates a middleware that injects a request ID and the client
// identity into every request.
func Trace() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			requestID := observability.GenerateRequestID()
			ctx = observability.WithRequestID(ctx, requestID)
			ctx = observability.WithClientIP(ctx, clientIP(r))

			w.Header().Set("X-Request-Id", requestID)

			contextLogger := observability.FromContext(ctx)
			contextLogger.Info("request started",
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// clientIP resolves the identity used for rate limiting and metrics: the
// first X-Forwarded-For entry when present, otherwise the connection peer.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, found := strings.Cut(forwarded, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

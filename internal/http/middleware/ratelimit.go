package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/davidbz/hearth/internal/domain"
	"github.com/davidbz/hearth/internal/observability"
)

// RateLimit creates a middleware that rejects clients exceeding their request
// window before the request body is even read. A failing limiter backend
// fails open: dropping abuse control beats dropping the service.
//
// A rejection is a terminal outcome, so it still produces one metrics record;
// the message count is zero because the body was never parsed.
func RateLimit(limiter domain.RateLimiter, metrics observability.MetricsRecorder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			start := time.Now()
			key := observability.GetClientIP(ctx)

			allowed, err := limiter.Allow(ctx, key)
			if err != nil {
				observability.FromContext(ctx).Warn("rate limiter unavailable, allowing request",
					observability.Error(err))
				allowed = true
			}

			if !allowed {
				observability.FromContext(ctx).Info("request rate limited")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(domain.ErrRateLimited.HTTPStatus())
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": domain.ErrRateLimited.Message,
				})

				metrics.Record(ctx, observability.RequestRecord{
					Timestamp:    start,
					ClientIP:     key,
					Success:      false,
					Elapsed:      time.Since(start),
					MessageCount: 0,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimit applies a shared token bucket to every request passing through
// it. Exceeding the budget yields 429 without blocking; a non-positive rps
// disables limiting entirely.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate_limited","message":"Too many requests"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

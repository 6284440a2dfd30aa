package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"fifo-arith/message"
)

// RateLimit rejects computations beyond a token-bucket budget. It is never
// part of the default chain — the dispatcher accepts without admission
// control — but a deployment that needs a ceiling can opt in.
func RateLimit(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) *message.Response {
			if !limiter.Allow() {
				return &message.Response{Success: false, Error: "Rate limit exceeded"}
			}
			return next(ctx, req)
		}
	}
}

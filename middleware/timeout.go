package middleware

import (
	"context"
	"time"

	"fifo-arith/message"
)

// Timeout bounds the computation itself. Opt-in: the protocol has no deadline
// of its own, so this only guards against a pathological handler.
func Timeout(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) *message.Response {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan *message.Response, 1)
			go func() {
				done <- next(ctx, req)
			}()

			select {
			case resp := <-done:
				return resp
			case <-ctx.Done():
				return &message.Response{Success: false, Error: "Request timed out"}
			}
		}
	}
}

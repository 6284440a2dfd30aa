// Package middleware provides the handler chain wrapped around the arithmetic
// computation. The dispatcher builds the chain once at startup; each worker
// runs a request through it.
package middleware

import (
	"context"

	"fifo-arith/message"
)

// HandlerFunc computes the response for one request.
type HandlerFunc func(ctx context.Context, req *message.Request) *message.Response

// Middleware wraps a handler with additional behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares into one. Chain(A, B, C)(handler) wraps as
// A(B(C(handler))): A runs outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

package middleware

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fifo-arith/message"
)

// Recovery converts a panicking handler into a failed response. A domain error
// must never crash a worker; the client still gets a well-formed record.
func Recovery(logger *zap.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (resp *message.Response) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("handler panic",
						zap.String("op", req.OpString()),
						zap.Any("panic", r),
					)
					resp = &message.Response{Success: false, Error: fmt.Sprintf("Internal error: %v", r)}
				}
			}()
			return next(ctx, req)
		}
	}
}

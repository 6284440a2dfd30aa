package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fifo-arith/message"
)

// Logging logs every computation with its operation, operands, requester and
// duration. Domain failures (success=false) are logged at warn level — they
// are well-formed outcomes, not faults.
func Logging(logger *zap.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) *message.Response {
			start := time.Now()
			resp := next(ctx, req)
			fields := []zap.Field{
				zap.String("op", req.OpString()),
				zap.Int64("a", req.Operand1),
				zap.Int64("b", req.Operand2),
				zap.Int32("requester", req.RequesterID),
				zap.Duration("duration", time.Since(start)),
			}
			if resp.Success {
				logger.Info("computed", append(fields, zap.Int64("result", resp.Result))...)
			} else {
				logger.Warn("computation failed", append(fields, zap.String("error", resp.Error))...)
			}
			return resp
		}
	}
}

package server

import (
	"context"
	"errors"
	"math"

	"fifo-arith/message"
)

var errDivideByZero = errors.New("Divide by zero")

// ops maps the closed set of operation codes to their implementations.
// Lookup is by the 3 significant bytes of the code, so trailing padding in the
// wire field never affects dispatch. Overflow is unchecked: results wrap per
// int64 two's-complement arithmetic.
var ops = map[string]func(a, b int64) (int64, error){
	message.OpAdd: func(a, b int64) (int64, error) { return a + b, nil },
	message.OpSub: func(a, b int64) (int64, error) { return a - b, nil },
	message.OpMul: func(a, b int64) (int64, error) { return a * b, nil },
	message.OpDiv: func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errDivideByZero
		}
		if a == math.MinInt64 && b == -1 {
			// The only quotient that overflows; wraps instead of trapping.
			return math.MinInt64, nil
		}
		return a / b, nil
	},
}

// Compute evaluates one request and builds its response. Division by zero and
// an unknown operation code are domain errors: well-formed success=false
// responses, never faults. Compute has the middleware HandlerFunc signature
// and sits at the core of the server's handler chain.
func Compute(_ context.Context, req *message.Request) *message.Response {
	fn, ok := ops[req.OpString()]
	if !ok {
		return &message.Response{Success: false, Error: "Invalid operation"}
	}
	result, err := fn(req.Operand1, req.Operand2)
	if err != nil {
		return &message.Response{Success: false, Error: err.Error()}
	}
	return &message.Response{Result: result, Success: true}
}

package server

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fifo-arith/message"
)

func TestComputeValidOps(t *testing.T) {
	cases := []struct {
		op   string
		a, b int64
		want int64
	}{
		{"add", 6, 9, 15},
		{"add", -5, 3, -2},
		{"sub", 10, 4, 6},
		{"sub", math.MinInt64, 0, math.MinInt64},
		{"mul", 7, 8, 56},
		{"mul", -3, 3, -9},
		{"div", 10, 3, 3},
		{"div", -10, 2, -5},
		// Overflow is unchecked: results wrap per int64 arithmetic.
		{"add", math.MaxInt64, 1, math.MinInt64},
		{"mul", math.MaxInt64, 2, -2},
		{"div", math.MinInt64, -1, math.MinInt64},
	}

	for _, tc := range cases {
		req := message.NewRequest(tc.op, tc.a, tc.b, 1, "/tmp/r.fifo")
		resp := Compute(context.Background(), &req)
		require.True(t, resp.Success, "%s(%d,%d)", tc.op, tc.a, tc.b)
		assert.Equal(t, tc.want, resp.Result, "%s(%d,%d)", tc.op, tc.a, tc.b)
		assert.Empty(t, resp.Error)
	}
}

func TestComputeDivideByZero(t *testing.T) {
	for _, a := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64} {
		req := message.NewRequest("div", a, 0, 1, "/tmp/r.fifo")
		resp := Compute(context.Background(), &req)
		assert.False(t, resp.Success)
		assert.Equal(t, "Divide by zero", resp.Error)
	}
}

func TestComputeInvalidOp(t *testing.T) {
	for _, op := range []string{"mod", "pow", "xyz", "", "ADD"} {
		req := message.NewRequest(op, 1, 2, 1, "/tmp/r.fifo")
		resp := Compute(context.Background(), &req)
		assert.False(t, resp.Success, "op %q", op)
		assert.Equal(t, "Invalid operation", resp.Error, "op %q", op)
	}
}

// Dispatch compares the fixed-width field, so padding garbage beyond the 3
// significant bytes must not affect the result.
func TestComputeToleratesOpPadding(t *testing.T) {
	req := message.NewRequest("add", 2, 3, 1, "/tmp/r.fifo")
	req.Op[3] = 0x7F
	resp := Compute(context.Background(), &req)
	require.True(t, resp.Success)
	assert.Equal(t, int64(5), resp.Result)
}

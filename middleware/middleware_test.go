package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fifo-arith/message"
)

func echoHandler(ctx context.Context, req *message.Request) *message.Response {
	return &message.Response{Result: req.Operand1, Success: true}
}

func slowHandler(ctx context.Context, req *message.Request) *message.Response {
	time.Sleep(200 * time.Millisecond)
	return &message.Response{Result: req.Operand1, Success: true}
}

func newRequest() *message.Request {
	req := message.NewRequest("add", 6, 9, 1, "/tmp/r.fifo")
	return &req
}

func TestLogging(t *testing.T) {
	handler := Logging(zap.NewNop())(echoHandler)

	resp := handler(context.Background(), newRequest())
	require.NotNil(t, resp)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(6), resp.Result)
}

func TestRecovery(t *testing.T) {
	panicking := func(ctx context.Context, req *message.Request) *message.Response {
		panic("boom")
	}
	handler := Recovery(zap.NewNop())(panicking)

	resp := handler(context.Background(), newRequest())
	require.NotNil(t, resp)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "Internal error")
}

func TestTimeoutPass(t *testing.T) {
	handler := Timeout(500 * time.Millisecond)(echoHandler)

	resp := handler(context.Background(), newRequest())
	assert.True(t, resp.Success)
}

func TestTimeoutExceeded(t *testing.T) {
	handler := Timeout(50 * time.Millisecond)(slowHandler)

	resp := handler(context.Background(), newRequest())
	assert.False(t, resp.Success)
	assert.Equal(t, "Request timed out", resp.Error)
}

func TestRateLimit(t *testing.T) {
	// rate=1/s, burst=2: first two pass immediately, third is rejected.
	handler := RateLimit(1, 2)(echoHandler)

	for i := 0; i < 2; i++ {
		resp := handler(context.Background(), newRequest())
		assert.True(t, resp.Success, "request %d should pass", i)
	}

	resp := handler(context.Background(), newRequest())
	assert.False(t, resp.Success)
	assert.Equal(t, "Rate limit exceeded", resp.Error)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	handler := Metrics(reg, "test")(echoHandler)

	handler(context.Background(), newRequest())

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "test_worker_compute_duration_ms", families[0].GetName())
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, req *message.Request) *message.Response {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	handler := Chain(tag("outer"), tag("inner"))(echoHandler)
	resp := handler(context.Background(), newRequest())

	require.True(t, resp.Success)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

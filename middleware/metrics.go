package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"fifo-arith/message"
)

// Metrics observes computation latency per operation and outcome.
// The summary vector is registered on the given registerer; pass
// prometheus.DefaultRegisterer in production, a fresh registry in tests.
func Metrics(reg prometheus.Registerer, namespace string) Middleware {
	vector := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "compute_duration_ms",
		Help:      "Latency of one arithmetic computation in milliseconds",
		Objectives: map[float64]float64{
			0.5:  0.01,
			0.90: 0.01,
			0.99: 0.001,
		},
	}, []string{"op", "outcome"})
	reg.MustRegister(vector)

	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) *message.Response {
			start := time.Now()
			resp := next(ctx, req)
			outcome := "ok"
			if !resp.Success {
				outcome = "error"
			}
			vector.WithLabelValues(req.OpString(), outcome).
				Observe(float64(time.Since(start).Milliseconds()))
			return resp
		}
	}
}

package server

import "github.com/prometheus/client_golang/prometheus"

// serverMetrics tracks dispatcher-level counters. Compute latency is covered
// separately by the metrics middleware.
type serverMetrics struct {
	requests      *prometheus.CounterVec
	partials      prometheus.Counter
	reopens       prometheus.Counter
	degraded      prometheus.Counter
	replyFailures prometheus.Counter
	workers       prometheus.Gauge
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	m := &serverMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fifo_arith",
			Subsystem: "dispatcher",
			Name:      "requests_total",
			Help:      "Requests accepted from the well-known channel",
		}, []string{"op"}),
		partials: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fifo_arith",
			Subsystem: "dispatcher",
			Name:      "partial_records_total",
			Help:      "Malformed (short) request records dropped",
		}),
		reopens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fifo_arith",
			Subsystem: "dispatcher",
			Name:      "channel_reopens_total",
			Help:      "Read-handle reopens after an end-of-channel observation",
		}),
		degraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fifo_arith",
			Subsystem: "dispatcher",
			Name:      "degraded_requests_total",
			Help:      "Requests computed inline because no worker slot was available",
		}),
		replyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fifo_arith",
			Subsystem: "worker",
			Name:      "reply_failures_total",
			Help:      "Responses that could not be delivered to the reply channel",
		}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fifo_arith",
			Subsystem: "worker",
			Name:      "in_flight",
			Help:      "Workers currently running",
		}),
	}
	reg.MustRegister(m.requests, m.partials, m.reopens, m.degraded, m.replyFailures, m.workers)
	return m
}

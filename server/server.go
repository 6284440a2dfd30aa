// Package server implements the request dispatcher and the per-request
// arithmetic workers.
//
// Request processing pipeline:
//
//	read one fixed-size record from the well-known FIFO (blocking)
//	  → for each full record: go worker (dispatcher never waits)
//	    → middleware chain → Compute → open reply FIFO (blocks until the
//	      client is listening) → write one response record → terminate
//
// The dispatcher is purely sequential for accepting: a worker blocked on a
// slow or absent client can never stall the accept loop or other workers.
// Workers share no mutable state — each owns its request and its reply handle.
package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"fifo-arith/codec"
	"fifo-arith/fifo"
	"fifo-arith/message"
	"fifo-arith/middleware"
)

// Options configures a Server. The zero value of every field has a usable
// default except RequestPath, which is required.
type Options struct {
	// RequestPath is the well-known request FIFO location.
	RequestPath string
	// MaxWorkers caps concurrent workers. 0 means unbounded — the default:
	// flow control is deliberately out of scope. When the cap is reached the
	// dispatcher degrades to computing and replying inline rather than
	// dropping the request.
	MaxWorkers int
	// Logger for dispatcher and worker events. Nil means no logging.
	Logger *zap.Logger
	// Registerer for metrics. Nil means prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// Server owns the well-known request channel and dispatches one worker per
// accepted request.
type Server struct {
	opts        Options
	middlewares []middleware.Middleware
	handler     middleware.HandlerFunc
	channel     *fifo.RequestChannel
	wg          sync.WaitGroup // tracks in-flight workers for graceful shutdown
	shutdown    atomic.Bool    // suppresses read errors caused by Shutdown closing the channel
	slots       chan struct{}  // worker slots, nil when unbounded
	metrics     *serverMetrics
	logger      *zap.Logger
}

// New creates a Server. It does not touch the filesystem; Serve does.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	s := &Server{
		opts:    opts,
		metrics: newServerMetrics(opts.Registerer),
		logger:  opts.Logger,
	}
	if opts.MaxWorkers > 0 {
		s.slots = make(chan struct{}, opts.MaxWorkers)
	}
	return s
}

// Use registers a middleware around Compute. Middlewares run in the order
// they are added.
func (s *Server) Use(mw middleware.Middleware) {
	s.middlewares = append(s.middlewares, mw)
}

// Serve creates and opens the well-known channel, then runs the accept loop
// until ctx is cancelled or Shutdown is called. Failing to open the channel is
// startup-fatal and returned immediately.
//
// Loop contract per iteration: exactly one fixed-size record is read.
// Zero bytes means every writer closed — transient, the read handle is
// reopened. A short record is dropped whole. A full record is dispatched to a
// worker and the loop immediately resumes listening.
func (s *Server) Serve(ctx context.Context) error {
	ch, err := fifo.OpenRequestChannel(s.opts.RequestPath)
	if err != nil {
		return fmt.Errorf("server: open request channel: %w", err)
	}
	s.channel = ch

	// Build the middleware chain once at startup, not per request.
	s.handler = middleware.Chain(s.middlewares...)(Compute)

	// Unblock the pending read when the context is cancelled. Closing the
	// read handle is the only way to interrupt a blocked FIFO read.
	stop := context.AfterFunc(ctx, func() {
		s.shutdown.Store(true)
		s.channel.Close()
	})
	defer stop()

	s.logger.Info("server started", zap.String("channel", s.opts.RequestPath))

	for {
		if s.shutdown.Load() || ctx.Err() != nil {
			return nil
		}

		req, err := codec.ReadRequest(s.channel.Reader())
		if err != nil {
			switch {
			case errors.Is(err, codec.ErrChannelClosed):
				// Should not happen while the keeper writer is held;
				// handled defensively by reopening rather than exiting.
				s.metrics.reopens.Inc()
				s.logger.Debug("end of channel, reopening")
				if rerr := s.channel.Reopen(); rerr != nil {
					if s.shutdown.Load() {
						return nil
					}
					return fmt.Errorf("server: reopen request channel: %w", rerr)
				}
				continue
			case errors.Is(err, codec.ErrPartialRecord):
				// Unusable record; no resynchronization is attempted.
				s.metrics.partials.Inc()
				s.logger.Warn("partial request dropped", zap.Error(err))
				continue
			default:
				if s.shutdown.Load() {
					return nil // Shutdown closed the handle under us
				}
				return fmt.Errorf("server: read request: %w", err)
			}
		}

		s.metrics.requests.WithLabelValues(req.OpString()).Inc()
		s.logger.Info("request received",
			zap.String("op", req.OpString()),
			zap.Int64("a", req.Operand1),
			zap.Int64("b", req.Operand2),
			zap.Int32("requester", req.RequesterID),
			zap.String("reply", req.ReplyPath),
		)

		s.dispatch(ctx, req)
	}
}

// dispatch hands the request to an isolated worker, or — when the worker cap
// is exhausted — computes and replies inline as a best-effort degrade rather
// than dropping the request.
func (s *Server) dispatch(ctx context.Context, req *message.Request) {
	if s.slots != nil {
		select {
		case s.slots <- struct{}{}:
		default:
			s.metrics.degraded.Inc()
			s.logger.Warn("worker limit reached, handling request inline",
				zap.Int("max_workers", s.opts.MaxWorkers))
			s.process(ctx, req)
			return
		}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if s.slots != nil {
			defer func() { <-s.slots }()
		}
		s.process(ctx, req)
	}()
}

// process is the worker body: compute one response and deliver it to the
// requester's reply channel, then terminate. Delivery failures are logged and
// never retried — the client detects them as its own read failure.
func (s *Server) process(ctx context.Context, req *message.Request) {
	s.metrics.workers.Inc()
	defer s.metrics.workers.Dec()

	resp := s.handler(ctx, req)

	if req.ReplyPath == "" {
		s.metrics.replyFailures.Inc()
		s.logger.Error("request carries no reply channel",
			zap.Int32("requester", req.RequesterID))
		return
	}

	// Blocks until the client opens its reply channel for reading.
	w, err := fifo.OpenWrite(req.ReplyPath)
	if err != nil {
		s.metrics.replyFailures.Inc()
		s.logger.Error("open reply channel failed",
			zap.String("reply", req.ReplyPath), zap.Error(err))
		return
	}
	defer w.Close()

	if _, err := w.Write(codec.EncodeResponse(resp)); err != nil {
		s.metrics.replyFailures.Inc()
		s.logger.Error("write response failed",
			zap.String("reply", req.ReplyPath), zap.Error(err))
		return
	}

	s.logger.Info("response sent",
		zap.String("reply", req.ReplyPath),
		zap.Bool("success", resp.Success),
	)
}

// Shutdown stops the accept loop and waits for in-flight workers.
//
//  1. Set the shutdown flag BEFORE closing the channel, so the read error the
//     close provokes is recognized as intentional.
//  2. Close both channel handles and remove the FIFO.
//  3. Wait for workers with a timeout — a worker blocked on an absent client's
//     reply channel must not hold shutdown hostage forever.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.shutdown.Store(true)
	if s.channel != nil {
		s.channel.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("server: timeout waiting for workers to finish")
	}
}

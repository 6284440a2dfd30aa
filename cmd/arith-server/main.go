// Command arith-server runs the FIFO arithmetic service: it listens on the
// well-known request FIFO and answers each request on the requester's reply
// FIFO. Shutdown is signal-driven (SIGINT/SIGTERM).
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fifo-arith/config"
	"fifo-arith/middleware"
	"fifo-arith/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[server] %v\n", err)
		os.Exit(1)
	}

	// The log is an append-only side channel; failing to open it is
	// startup-fatal, same as failing to create the request FIFO.
	logger, err := openLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[server] open log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		RequestPath: cfg.RequestPath,
		MaxWorkers:  cfg.MaxWorkers,
		Logger:      logger,
		Registerer:  prometheus.DefaultRegisterer,
	})

	srv.Use(middleware.Recovery(logger))
	srv.Use(middleware.Logging(logger))
	srv.Use(middleware.Metrics(prometheus.DefaultRegisterer, "fifo_arith"))
	if cfg.RateLimit.Enabled {
		srv.Use(middleware.RateLimit(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst))
	}
	if cfg.ComputeTimeout > 0 {
		srv.Use(middleware.Timeout(cfg.ComputeTimeout))
	}

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error("metrics endpoint failed", zap.Error(err))
			}
		}()
	}

	fmt.Fprintf(os.Stderr, "[server] Listening on %s …\n", cfg.RequestPath)

	if err := srv.Serve(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		fmt.Fprintf(os.Stderr, "[server] %v\n", err)
		os.Exit(1)
	}

	if err := srv.Shutdown(5 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	logger.Info("server stopped")
}

// openLogger builds a zap logger that appends timestamped lines to path.
func openLogger(path string) (*zap.Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(f),
		zapcore.InfoLevel,
	)
	return zap.New(core), nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/salescope/salescope/internal/app"
	"github.com/salescope/salescope/internal/config"
	"github.com/salescope/salescope/internal/domain/evaluation"
	"github.com/salescope/salescope/pkg/logger"
	"github.com/salescope/salescope/pkg/metrics"
)

const (
	readHeaderTimeout = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("salescope: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.LogFormat); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel),
			logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Optionally expose metrics for scrapes during long runs.
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error(ctx, "metrics server failed", logger.Error(err))
			}
		}()
		defer srv.Close()
		log.Info(ctx, "metrics exposed", logger.String("addr", cfg.MetricsAddr))
	}

	svc, err := service.New(ctx, cfg)
	if err != nil {
		return err
	}

	res, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(evaluation.RenderReport(res))
	return nil
}

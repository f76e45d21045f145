package main

import (
	_ "latency-dashboard/app/src/infra/utils/autoload"

	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpapi "latency-dashboard/app/src/api/http"
	"latency-dashboard/app/src/domain"
	"latency-dashboard/app/src/infra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := initApplication(ctx, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise application: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	cfg := app.Config
	logger := app.Logger

	infra.LogConfig(ctx, logger, cfg)
	infra.StartMetricsServer(logger, cfg.MetricsPort)

	var workers sync.WaitGroup
	if cfg.ProbeEnabled {
		bufferSize := cfg.RecordBuffer
		if bufferSize <= 0 {
			bufferSize = 100
		}
		records := make(chan domain.RawRecord, bufferSize)

		workers.Add(2)
		go func() {
			defer workers.Done()
			app.Probe.Run(ctx, records)
		}()
		go func() {
			defer workers.Done()
			app.WorkerPool.Run(ctx, records)
		}()

		logger.Printf(ctx, "synthetic probe enabled interval_ms=%d workers=%d", cfg.ProbeIntervalMS, cfg.WorkerCount)
	}

	httpServer := newHTTPServer(cfg, app.Service, logger)

	httpListener, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		stop()
		workers.Wait()
		logger.Fatalf(ctx, "failed to listen on HTTP port %s: %v", cfg.AppPort, err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf(ctx, "HTTP server shutdown error: %v", err)
		}
	}()

	serverErrs := make(chan error, 1)
	var serverGroup sync.WaitGroup

	serverGroup.Add(1)
	go func() {
		defer serverGroup.Done()
		logger.Printf(ctx, "HTTP server listening on %s", httpListener.Addr())
		if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrs <- fmt.Errorf("http server: %w", err)
		}
	}()

	var serveErr error

	select {
	case <-ctx.Done():
	case err := <-serverErrs:
		if err != nil {
			serveErr = err
		}
		stop()
	}

	stop()
	workers.Wait()
	serverGroup.Wait()

	if serveErr != nil {
		logger.Printf(ctx, "server error: %v", serveErr)
	}

	logger.Println(ctx, "server stopped")
}

func newHTTPServer(cfg infra.Config, service domain.LatencyService, logger *infra.Logger) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.AppPort),
		Handler:           httpapi.NewServer(service, logger, cfg.StaticDir),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

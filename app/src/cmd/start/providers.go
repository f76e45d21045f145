package main

import (
	"context"
	"io"
	"time"

	"latency-dashboard/app/src/core"
	dbpostgres "latency-dashboard/app/src/database"
	"latency-dashboard/app/src/domain"
	"latency-dashboard/app/src/infra"
)

func provideConfig() infra.Config {
	return infra.LoadConfig()
}

func provideServiceName() string {
	return "latency-dashboard"
}

func provideLogger(out io.Writer, serviceName string) *infra.Logger {
	return infra.NewLogger(out, serviceName)
}

func provideClock() core.Clock {
	return time.Now
}

func provideValidator(clock core.Clock) *core.Validator {
	return core.NewValidator(clock)
}

func provideProbeConfig(cfg infra.Config) core.ProbeConfig {
	return core.ProbeConfig{
		Interval: time.Duration(cfg.ProbeIntervalMS) * time.Millisecond,
		Brokers:  cfg.ProbeBrokers,
	}
}

func provideProbe(cfg core.ProbeConfig, logger *infra.Logger) domain.ProbeGenerator {
	return core.NewProbe(cfg, logger)
}

func provideWorkerPool(cfg infra.Config, service domain.LatencyService, logger *infra.Logger) domain.WorkerPool {
	return core.NewIngestPool(cfg.WorkerCount, service, logger)
}

func provideLatencyService(validator *core.Validator, repo domain.MeasurementRepository) domain.LatencyService {
	return core.NewLatency(validator, repo)
}

func provideRepository(ctx context.Context, cfg infra.Config, logger *infra.Logger) (domain.MeasurementRepository, func(), error) {
	if dbpostgres.ShouldCheckDatabase(cfg) {
		if err := dbpostgres.WaitForDatabase(ctx, cfg, logger); err != nil {
			if logger != nil {
				logger.Printf(ctx, "database connectivity check failed: %v", err)
			}
		} else {
			if logger != nil {
				logger.Println(ctx, "database connectivity check succeeded")
			}
		}
	} else {
		if logger != nil {
			logger.Println(ctx, "database connectivity check skipped (no DSN or host/port configured)")
		}
	}

	return dbpostgres.SetupRepository(ctx, cfg, logger)
}

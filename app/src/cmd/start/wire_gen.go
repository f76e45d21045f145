//go:build !wireinject

package main

import (
	"context"
	"io"

	"latency-dashboard/app/src/domain"
	"latency-dashboard/app/src/infra"
)

func initApplication(ctx context.Context, out io.Writer) (*application, func(), error) {
	cfg, logger := setupBase(out)
	repo, cleanup, err := setupRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	svc := setupService(repo)
	probe := setupProbe(cfg, logger)
	pool := provideWorkerPool(cfg, svc, logger)

	app := newApplication(cfg, logger, svc, probe, pool)
	return assembleApplication(app, cleanup)
}

func setupBase(out io.Writer) (infra.Config, *infra.Logger) {
	cfg := provideConfig()
	svcName := provideServiceName()
	log := provideLogger(out, svcName)
	return cfg, log
}

func setupRepository(ctx context.Context, cfg infra.Config, logger *infra.Logger) (domain.MeasurementRepository, func(), error) {
	return provideRepository(ctx, cfg, logger)
}

func setupService(repo domain.MeasurementRepository) domain.LatencyService {
	validator := provideValidator(provideClock())
	return provideLatencyService(validator, repo)
}

func setupProbe(cfg infra.Config, logger *infra.Logger) domain.ProbeGenerator {
	probeCfg := provideProbeConfig(cfg)
	return provideProbe(probeCfg, logger)
}

package main

import (
	"latency-dashboard/app/src/domain"
	"latency-dashboard/app/src/infra"
)

type application struct {
	Config     infra.Config
	Logger     *infra.Logger
	Service    domain.LatencyService
	Probe      domain.ProbeGenerator
	WorkerPool domain.WorkerPool
}

func newApplication(cfg infra.Config, logger *infra.Logger, service domain.LatencyService, probe domain.ProbeGenerator, workerPool domain.WorkerPool) *application {
	return &application{
		Config:     cfg,
		Logger:     logger,
		Service:    service,
		Probe:      probe,
		WorkerPool: workerPool,
	}
}

func assembleApplication(app *application, cleanup func()) (*application, func(), error) {
	if cleanup == nil {
		cleanup = func() {}
	}
	return app, cleanup, nil
}

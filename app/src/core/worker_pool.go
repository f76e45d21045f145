package core

import (
	"context"
	"sync"

	"latency-dashboard/app/src/domain"
	"latency-dashboard/app/src/infra"
)

// IngestPool consumes raw records and pushes them through the service's
// Record path, sharing the validation rules with the HTTP transport.
type IngestPool struct {
	service     domain.LatencyService
	workerCount int
	logger      Logger
}

func NewIngestPool(workerCount int, service domain.LatencyService, logger Logger) *IngestPool {
	if workerCount < 0 {
		workerCount = 0
	}
	return &IngestPool{service: service, workerCount: workerCount, logger: logger}
}

func (p *IngestPool) Run(ctx context.Context, records <-chan domain.RawRecord) {
	if p.workerCount == 0 {
		p.drainUntilClosed(ctx, records)
		return
	}

	var wg sync.WaitGroup
	wg.Add(p.workerCount)

	for i := 0; i < p.workerCount; i++ {
		go func() {
			infra.WorkerStarted()
			defer wg.Done()
			defer infra.WorkerFinished()
			p.workerLoop(ctx, records)
		}()
	}
	wg.Wait()
}

func (p *IngestPool) workerLoop(ctx context.Context, records <-chan domain.RawRecord) {
	for {
		select {
		case <-ctx.Done():
			p.log(ctx, "worker: context cancelled: %v", ctx.Err())
			return
		case record, ok := <-records:
			if !ok {
				return
			}
			p.processRecord(ctx, record)
		}
	}
}

func (p *IngestPool) processRecord(ctx context.Context, record domain.RawRecord) {
	if len(record) == 0 {
		return
	}

	if err := p.service.Record(ctx, record); err != nil {
		p.log(ctx, "worker: failed to record measurement broker=%v: %v", record["broker"], err)
	}
}

func (p *IngestPool) drainUntilClosed(ctx context.Context, records <-chan domain.RawRecord) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-records:
			if !ok {
				return
			}
		}
	}
}

func (p *IngestPool) log(ctx context.Context, format string, v ...any) {
	if p.logger != nil {
		p.logger.Printf(ctx, format, v...)
	}
}

var _ domain.WorkerPool = (*IngestPool)(nil)

package domain

import "context"

// MeasurementWriter persists accepted measurements.
type MeasurementWriter interface {
	Insert(ctx context.Context, m Measurement) error
}

// LatencyReader exposes the windowed queries used by the dashboard.
type LatencyReader interface {
	OvernightSeries(ctx context.Context) ([]LatencyPoint, error)
	RollingSeries(ctx context.Context) ([]LatencyPoint, error)
}

// MeasurementRepository aggregates the write and read capabilities required by the service.
type MeasurementRepository interface {
	MeasurementWriter
	LatencyReader
}

// LatencyService describes the behaviour exposed to transport layers.
type LatencyService interface {
	Record(ctx context.Context, raw RawRecord) error
	Overnight(ctx context.Context) ([]LatencyPoint, error)
	Rolling(ctx context.Context) ([]LatencyPoint, error)
}

// ProbeGenerator produces synthetic raw records for the demo ingestion pipeline.
type ProbeGenerator interface {
	Run(ctx context.Context, out chan<- RawRecord)
}

// WorkerPool consumes raw records and feeds them through the ingestion path.
type WorkerPool interface {
	Run(ctx context.Context, records <-chan RawRecord)
}

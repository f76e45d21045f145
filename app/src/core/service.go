package core

import (
	"context"

	"latency-dashboard/app/src/domain"
	"latency-dashboard/app/src/infra"
)

// Latency wires the validator and repository into the use-cases exposed to
// transports. It is stateless and safe for concurrent use.
type Latency struct {
	validator *Validator
	repo      domain.MeasurementRepository
}

func NewLatency(validator *Validator, repo domain.MeasurementRepository) *Latency {
	return &Latency{validator: validator, repo: repo}
}

// Record validates a raw record and persists the resulting measurement.
// Validation failures are returned before the store is touched.
func (l *Latency) Record(ctx context.Context, raw domain.RawRecord) error {
	m, err := l.validator.Validate(raw)
	if err != nil {
		infra.IncValidationRejects()
		return err
	}
	return l.repo.Insert(ctx, m)
}

func (l *Latency) Overnight(ctx context.Context) ([]domain.LatencyPoint, error) {
	return l.repo.OvernightSeries(ctx)
}

func (l *Latency) Rolling(ctx context.Context) ([]domain.LatencyPoint, error) {
	return l.repo.RollingSeries(ctx)
}

var _ domain.LatencyService = (*Latency)(nil)

package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"latency-dashboard/app/src/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	inserted  []domain.Measurement
	insertErr error

	overnightResult []domain.LatencyPoint
	overnightErr    error
	rollingResult   []domain.LatencyPoint
	rollingErr      error
}

func (s *stubRepository) Insert(ctx context.Context, m domain.Measurement) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, m)
	return nil
}

func (s *stubRepository) OvernightSeries(ctx context.Context) ([]domain.LatencyPoint, error) {
	return s.overnightResult, s.overnightErr
}

func (s *stubRepository) RollingSeries(ctx context.Context) ([]domain.LatencyPoint, error) {
	return s.rollingResult, s.rollingErr
}

func newTestService(repo *stubRepository) *Latency {
	return NewLatency(NewValidator(nil), repo)
}

func TestRecordPersistsValidMeasurement(t *testing.T) {
	repo := &stubRepository{}
	svc := newTestService(repo)

	err := svc.Record(context.Background(), domain.RawRecord{"broker": "IBKR", "latency_ms": 12.5})

	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "IBKR", repo.inserted[0].Broker)
	assert.Equal(t, 12.5, repo.inserted[0].LatencyMS)
	assert.WithinDuration(t, time.Now(), repo.inserted[0].Timestamp, 2*time.Second)
}

func TestRecordRejectsBeforeStore(t *testing.T) {
	t.Log("Шаг 1: невалидная запись не доходит до хранилища")
	repo := &stubRepository{}
	svc := newTestService(repo)

	err := svc.Record(context.Background(), domain.RawRecord{"broker": "X", "latency_ms": -1.0})

	_, ok := domain.AsValidationError(err)
	assert.True(t, ok)
	assert.Empty(t, repo.inserted)
}

func TestRecordPropagatesStoreError(t *testing.T) {
	expected := errors.New("boom")
	repo := &stubRepository{insertErr: expected}
	svc := newTestService(repo)

	err := svc.Record(context.Background(), domain.RawRecord{"broker": "IBKR", "latency_ms": 1.0})

	assert.ErrorIs(t, err, expected)
	_, ok := domain.AsValidationError(err)
	assert.False(t, ok)
}

func TestOvernightDelegatesToRepository(t *testing.T) {
	points := []domain.LatencyPoint{{Timestamp: 1741572930, Broker: "IBKR", LatencyMS: 12.5}}
	repo := &stubRepository{overnightResult: points}
	svc := newTestService(repo)

	result, err := svc.Overnight(context.Background())

	require.NoError(t, err)
	assert.Equal(t, points, result)
}

func TestRollingDelegatesToRepository(t *testing.T) {
	expected := errors.New("store down")
	repo := &stubRepository{rollingErr: expected}
	svc := newTestService(repo)

	result, err := svc.Rolling(context.Background())

	assert.ErrorIs(t, err, expected)
	assert.Nil(t, result)
}

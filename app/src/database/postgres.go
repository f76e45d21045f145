package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"latency-dashboard/app/src/domain"
	"latency-dashboard/app/src/infra"
	"latency-dashboard/app/src/shared/constants"

	_ "github.com/lib/pq"
)

// Config contains the configuration required to connect to a Postgres database.
type Config struct {
	DSN    string
	Logger *infra.Logger
	// MaxOpenConns bounds the shared connection pool.
	MaxOpenConns int
	MaxIdleConns int
	ConnMaxLife  time.Duration
	// QueryTimeout bounds how long one query may wait for a pool slot and
	// execute, so one slow client cannot starve others.
	QueryTimeout time.Duration
}

// Repository implements the measurement store contracts backed by Postgres.
type Repository struct {
	db           *sql.DB
	logger       *infra.Logger
	queryTimeout time.Duration
}

const (
	insertMeasurementSQL = `
INSERT INTO order_latency (timestamp, broker, latency_ms, symbol, side, price, volume)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	// The overnight window is anchored on the store's CURRENT_DATE so the
	// calendar-date boundary is evaluated at query time, not request time.
	overnightSeriesSQL = `
SELECT
  EXTRACT(EPOCH FROM date_trunc('second', timestamp)) AS timestamp,
  broker,
  latency_ms
FROM order_latency
WHERE DATE(timestamp) = CURRENT_DATE
  AND EXTRACT(hour FROM timestamp) >= 0
  AND EXTRACT(hour FROM timestamp) < 6
ORDER BY timestamp ASC
`
	rollingSeriesSQL = `
SELECT
  EXTRACT(EPOCH FROM date_trunc('second', timestamp)) AS timestamp,
  broker,
  latency_ms
FROM order_latency
WHERE timestamp >= NOW() - INTERVAL '1 hour'
  AND timestamp <= NOW()
ORDER BY timestamp ASC
`
)

// New opens the connection pool, validates it with a ping and returns the
// repository.
func New(ctx context.Context, cfg Config) (*Repository, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres repository: DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres repository: open: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLife > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLife)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres repository: ping: %w", err)
	}

	return NewWithDB(db, cfg), nil
}

// NewWithDB wraps an existing database handle. Used by tests and cmd/migrate.
func NewWithDB(db *sql.DB, cfg Config) *Repository {
	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Repository{db: db, logger: cfg.Logger, queryTimeout: timeout}
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Ping reports whether the store is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	ctx, cancel := r.boundedCtx(ctx)
	defer cancel()
	return r.db.PingContext(ctx)
}

// Insert persists exactly one measurement row. No batching, no upsert,
// no dedup: duplicate rows from repeated polling are expected.
func (r *Repository) Insert(ctx context.Context, m domain.Measurement) error {
	ctx, cancel := r.boundedCtx(ctx)
	defer cancel()

	start := time.Now()
	_, err := r.db.ExecContext(ctx, insertMeasurementSQL,
		m.Timestamp, m.Broker, m.LatencyMS, m.Symbol, m.Side, m.Price, m.Volume)
	infra.ObserveDBWrite(time.Since(start))

	if err != nil {
		infra.IncDBWriteErrors()
		if r.logger != nil {
			r.logger.Errorf(ctx, "postgres repository: insert failed broker=%s latency_ms=%v ts=%s: %v",
				m.Broker, m.LatencyMS, m.Timestamp.Format(constants.TimeFormat), err)
		}
		return fmt.Errorf("postgres repository: insert measurement: %w", err)
	}

	infra.IncMeasurementsStored()
	return nil
}

// OvernightSeries returns today's rows with hour-of-day in [0,6), ordered by
// timestamp ascending.
func (r *Repository) OvernightSeries(ctx context.Context) ([]domain.LatencyPoint, error) {
	return r.querySeries(ctx, "overnight series", overnightSeriesSQL)
}

// RollingSeries returns rows in [now-1h, now] evaluated store-side, ordered
// by timestamp ascending.
func (r *Repository) RollingSeries(ctx context.Context) ([]domain.LatencyPoint, error) {
	return r.querySeries(ctx, "rolling series", rollingSeriesSQL)
}

func (r *Repository) querySeries(ctx context.Context, op, query string) ([]domain.LatencyPoint, error) {
	ctx, cancel := r.boundedCtx(ctx)
	defer cancel()

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query)
	infra.ObserveDBRead(time.Since(start))
	if err != nil {
		if r.logger != nil {
			r.logger.Errorf(ctx, "postgres repository: %s query failed: %v", op, err)
		}
		return nil, fmt.Errorf("postgres repository: %s: %w", op, err)
	}
	defer rows.Close()

	points, err := scanLatencyPoints(rows)
	if err != nil {
		if r.logger != nil {
			r.logger.Errorf(ctx, "postgres repository: %s scan failed: %v", op, err)
		}
		return nil, fmt.Errorf("postgres repository: %s: %w", op, err)
	}

	return points, nil
}

// scanLatencyPoints maps result rows to the shared read shape. The result is
// never nil so an empty window serializes as [].
func scanLatencyPoints(rows *sql.Rows) ([]domain.LatencyPoint, error) {
	points := []domain.LatencyPoint{}
	for rows.Next() {
		var p domain.LatencyPoint
		if err := rows.Scan(&p.Timestamp, &p.Broker, &p.LatencyMS); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return points, nil
}

// boundedCtx layers the pool-acquisition timeout over the request context so
// abandoned requests cancel their in-flight queries.
func (r *Repository) boundedCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

var _ domain.MeasurementRepository = (*Repository)(nil)

package core

import (
	"context"
	"math/rand"
	"time"

	"latency-dashboard/app/src/domain"
	"latency-dashboard/app/src/infra"
)

type ProbeConfig struct {
	Interval   time.Duration
	Brokers    []string
	RandSource rand.Source
}

// Probe emits synthetic raw latency records so the dashboard can be exercised
// without live order flow. Records go through the same validation path as
// HTTP ingestion.
type Probe struct {
	cfg    ProbeConfig
	logger Logger
	rnd    *rand.Rand
}

var defaultProbeBrokers = []string{"IBKR", "ALPACA", "TRADIER"}

var probeSymbols = []string{"AAPL", "MSFT", "SPY", "TSLA"}

func NewProbe(cfg ProbeConfig, logger Logger) *Probe {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if len(cfg.Brokers) == 0 {
		cfg.Brokers = defaultProbeBrokers
	}

	source := cfg.RandSource
	if source == nil {
		source = rand.NewSource(time.Now().UnixNano())
	}
	cfg.RandSource = source

	return &Probe{
		cfg:    cfg,
		logger: logger,
		rnd:    rand.New(source),
	}
}

func (p *Probe) Run(ctx context.Context, out chan<- domain.RawRecord) {
	defer close(out)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log(ctx, "probe: остановлен (context cancelled): %v", ctx.Err())
			return
		case <-ticker.C:
		}

		record := p.generateRecord()
		infra.IncProbeRecords()

		if !p.sendRecord(ctx, out, record) {
			return
		}
	}
}

func (p *Probe) generateRecord() domain.RawRecord {
	broker := p.cfg.Brokers[p.rnd.Intn(len(p.cfg.Brokers))]
	// Latency around a 5-80ms baseline with occasional slow outliers.
	latency := 5 + p.rnd.Float64()*75
	if p.rnd.Intn(20) == 0 {
		latency += p.rnd.Float64() * 400
	}

	record := domain.RawRecord{
		"broker":     broker,
		"latency_ms": latency,
	}

	if p.rnd.Intn(2) == 0 {
		record["symbol"] = probeSymbols[p.rnd.Intn(len(probeSymbols))]
		if p.rnd.Intn(2) == 0 {
			record["side"] = "B"
		} else {
			record["side"] = "S"
		}
		record["price"] = 50 + p.rnd.Float64()*450
		record["volume"] = float64(p.rnd.Intn(1000))
	}

	return record
}

func (p *Probe) sendRecord(ctx context.Context, out chan<- domain.RawRecord, record domain.RawRecord) bool {
	select {
	case <-ctx.Done():
		p.log(ctx, "probe: остановка перед отправкой записи: %v", ctx.Err())
		return false
	case out <- record:
		return true
	}
}

func (p *Probe) log(ctx context.Context, format string, v ...any) {
	if p.logger != nil {
		p.logger.Printf(ctx, format, v...)
	}
}

var _ domain.ProbeGenerator = (*Probe)(nil)

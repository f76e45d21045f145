package domain

import "time"

// Measurement is one accepted latency observation plus optional trade context.
// Optional fields are pointers so an absent value is stored as NULL.
type Measurement struct {
	Timestamp time.Time
	Broker    string
	LatencyMS float64
	Symbol    *string
	Side      *string
	Price     *float64
	Volume    *int64
}

// LatencyPoint is the row shape served by every read endpoint: epoch seconds
// truncated to whole seconds, broker name and the observed latency.
type LatencyPoint struct {
	Timestamp float64 `json:"timestamp"`
	Broker    string  `json:"broker"`
	LatencyMS float64 `json:"latency_ms"`
}

// RawRecord is the loosely-typed inbound payload before validation.
type RawRecord = map[string]any

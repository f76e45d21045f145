package core

import (
	"encoding/json"
	"math"
	"time"

	"latency-dashboard/app/src/domain"
	"latency-dashboard/app/src/shared/constants"
)

// Clock supplies the ingestion-time default so tests can pin "now".
type Clock func() time.Time

// Validator checks an inbound raw record against the ingestion rules and
// produces a normalized Measurement. It performs no I/O; the only ambient
// input is the injected clock.
type Validator struct {
	now Clock
}

func NewValidator(now Clock) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

const (
	msgMissingRequired  = "Missing required fields: broker and latency_ms are required"
	msgBrokerInvalid    = "broker must be a non-empty string with max 50 characters"
	msgLatencyInvalid   = "latency_ms must be a non-negative finite number"
	msgTimestampInvalid = "Invalid timestamp format"
	msgSymbolInvalid    = "symbol must be a string with max 20 characters"
	msgSideInvalid      = "side must be a single character (B/S)"
	msgPriceInvalid     = "price must be a non-negative finite number"
	msgVolumeInvalid    = "volume must be a non-negative integer"
)

// maxEpochMillis is the largest epoch-millisecond magnitude that still maps
// to a representable instant (±100,000,000 days around the epoch).
const maxEpochMillis = 8.64e15

// Validate maps a raw record to a Measurement or a *domain.ValidationError.
// Checks run in a fixed order and the first failure wins.
func (v *Validator) Validate(raw domain.RawRecord) (domain.Measurement, error) {
	brokerRaw, brokerPresent := raw["broker"]
	latencyRaw, latencyPresent := raw["latency_ms"]

	if !brokerPresent || brokerRaw == nil || !latencyPresent {
		return domain.Measurement{}, &domain.ValidationError{Field: "broker", Reason: msgMissingRequired}
	}

	broker, ok := brokerRaw.(string)
	if !ok || len(broker) == 0 || len(broker) > constants.BrokerMaxLen {
		return domain.Measurement{}, &domain.ValidationError{Field: "broker", Reason: msgBrokerInvalid}
	}

	latency, ok := numberValue(latencyRaw)
	if !ok || latency < 0 || math.IsInf(latency, 0) || math.IsNaN(latency) {
		return domain.Measurement{}, &domain.ValidationError{Field: "latency_ms", Reason: msgLatencyInvalid}
	}

	timestamp, err := v.resolveTimestamp(raw["timestamp"])
	if err != nil {
		return domain.Measurement{}, err
	}

	m := domain.Measurement{
		Timestamp: timestamp,
		Broker:    broker,
		LatencyMS: latency,
	}

	if symbolRaw, present := raw["symbol"]; present && symbolRaw != nil {
		symbol, ok := symbolRaw.(string)
		if !ok || len(symbol) > constants.SymbolMaxLen {
			return domain.Measurement{}, &domain.ValidationError{Field: "symbol", Reason: msgSymbolInvalid}
		}
		m.Symbol = &symbol
	}

	if sideRaw, present := raw["side"]; present && sideRaw != nil {
		side, ok := sideRaw.(string)
		if !ok || len(side) != constants.SideLen {
			return domain.Measurement{}, &domain.ValidationError{Field: "side", Reason: msgSideInvalid}
		}
		m.Side = &side
	}

	if priceRaw, present := raw["price"]; present && priceRaw != nil {
		price, ok := numberValue(priceRaw)
		if !ok || price < 0 || math.IsInf(price, 0) || math.IsNaN(price) {
			return domain.Measurement{}, &domain.ValidationError{Field: "price", Reason: msgPriceInvalid}
		}
		m.Price = &price
	}

	if volumeRaw, present := raw["volume"]; present && volumeRaw != nil {
		value, ok := numberValue(volumeRaw)
		if !ok || value < 0 || value != math.Trunc(value) || math.IsInf(value, 0) || math.IsNaN(value) || value >= math.MaxInt64 {
			return domain.Measurement{}, &domain.ValidationError{Field: "volume", Reason: msgVolumeInvalid}
		}
		volume := int64(value)
		m.Volume = &volume
	}

	return m, nil
}

// resolveTimestamp substitutes the current time when the raw value is absent
// or falsy, and rejects present values that fail to parse.
func (v *Validator) resolveTimestamp(raw any) (time.Time, error) {
	if isFalsy(raw) {
		return v.now(), nil
	}

	switch value := raw.(type) {
	case string:
		for _, layout := range constants.TimestampLayouts {
			if parsed, err := time.Parse(layout, value); err == nil {
				return parsed, nil
			}
		}
	case float64:
		// Numeric timestamps arrive as epoch milliseconds.
		if !math.IsInf(value, 0) && !math.IsNaN(value) && math.Abs(value) <= maxEpochMillis {
			return time.UnixMilli(int64(value)).UTC(), nil
		}
	case json.Number:
		if millis, err := value.Int64(); err == nil && math.Abs(float64(millis)) <= maxEpochMillis {
			return time.UnixMilli(millis).UTC(), nil
		}
	}

	return time.Time{}, &domain.ValidationError{Field: "timestamp", Reason: msgTimestampInvalid}
}

func isFalsy(raw any) bool {
	switch value := raw.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case bool:
		return !value
	case float64:
		return value == 0 || math.IsNaN(value)
	default:
		return false
	}
}

func numberValue(raw any) (float64, bool) {
	switch value := raw.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

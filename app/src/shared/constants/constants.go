package constants

import "time"

const (
	// TimeFormat defines the canonical timestamp format used across transports.
	TimeFormat = time.RFC3339Nano

	// BrokerMaxLen bounds the broker identifier accepted on ingestion.
	BrokerMaxLen = 50

	// SymbolMaxLen bounds the optional instrument symbol.
	SymbolMaxLen = 20

	// SideLen is the exact length of the optional side code.
	SideLen = 1
)

// TimestampLayouts are the layouts accepted for an inbound string timestamp,
// tried in order.
var TimestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

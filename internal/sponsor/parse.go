package sponsor

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateOnlyLayout = "2006-01-02"

// Layouts tried in order for full timestamps. RFC3339 covers offsets and a
// trailing Z; the bare layout covers offset-less values, read as UTC.
var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

// ParseDecimal parses a decimal amount exactly, with no binary float step.
// Blank or malformed input reports false instead of an error so that callers
// can skip individual records without aborting a run.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	text := strings.TrimSpace(s)
	if text == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseTimestamp parses a timestamp and normalizes it to UTC. In dateOnly
// mode the value is a calendar date anchored to midnight UTC. Blank or
// malformed input reports false.
func ParseTimestamp(s string, dateOnly bool) (time.Time, bool) {
	text := strings.TrimSpace(s)
	if text == "" {
		return time.Time{}, false
	}
	if dateOnly {
		t, err := time.Parse(dateOnlyLayout, text)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

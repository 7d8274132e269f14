package quake

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TaipeiTZ is the fixed UTC+8 offset used for display and for timestamps
// that arrive without a zone designator.
var TaipeiTZ = time.FixedZone("UTC+8", 8*60*60)

// DisplayLayout is the minute-resolution layout used in replies.
const DisplayLayout = "2006-01-02 15:04"

// localLayouts are tried, in order, for timestamps that carry no offset.
var localLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

var numberPattern = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

// ParseTime parses a provider timestamp into UTC.
// RFC3339 input keeps its own offset; input without an offset is taken as UTC+8.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, TaipeiTZ); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseFloat extracts the first number found in v, which may be a JSON number,
// a numeric string, or a string with units such as "10.0公里".
// Non-finite values are rejected.
func ParseFloat(v any) (*float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return nil, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil, false
		}
		f = parsed
	default:
		m := numberPattern.FindString(toString(x))
		if m == "" {
			return nil, false
		}
		parsed, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil, false
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &f, true
}

// Float returns the parsed value or 0.
func Float(v any) float64 {
	if f, ok := ParseFloat(v); ok {
		return *f
	}
	return 0
}

package resource

import (
	"regexp"
	"time"

	"github.com/araddon/dateparse"
)

// dateValue matches a whole date or timestamp: YYYY-MM-DD with an optional
// time of day, fraction and zone. Anything after it disqualifies the string.
var dateValue = regexp.MustCompile(
	`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}(:\d{2}(\.\d{1,9})?)?(Z|[+-]\d{2}(:?\d{2})?)?)?$`)

// CoerceDates walks v and replaces strings that are entirely a YYYY-MM-DD
// date or timestamp and parse as a real one with time.Time. Maps and slices
// are rewritten in place; other values pass through unchanged.
func CoerceDates(v any) any {
	switch val := v.(type) {
	case string:
		if t, ok := parseDate(val); ok {
			return t
		}
		return val
	case map[string]any:
		for k, inner := range val {
			val[k] = CoerceDates(inner)
		}
		return val
	case Record:
		for k, inner := range val {
			val[k] = CoerceDates(inner)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = CoerceDates(inner)
		}
		return val
	default:
		return v
	}
}

// CoerceRecord coerces dates in rec except in the text fields of spec,
// which keep the string exactly as sent.
func CoerceRecord(spec *Spec, rec Record) Record {
	for k, v := range rec {
		if f, ok := spec.Field(k); ok && f.Kind == KindText {
			continue
		}
		rec[k] = CoerceDates(v)
	}
	return rec
}

func parseDate(s string) (time.Time, bool) {
	if !dateValue.MatchString(s) {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Package codec provides string parse hooks for scalar types that documents
// carry as text, such as timestamps and durations.
package codec

import (
	"fmt"
	"time"
)

// yamlTimestampLayouts are the timestamp forms the YAML 1.1 timestamp type
// allows beyond strict RFC 3339.
var yamlTimestampLayouts = []string{
	"2006-1-2T15:4:5.999999999Z07:00",
	"2006-1-2t15:4:5.999999999Z07:00",
	"2006-1-2 15:4:5.999999999",
	"2006-1-2",
}

// ParseTime accepts RFC 3339 (nanosecond precision optional) and the YAML
// timestamp forms. Times without a zone are UTC.
func ParseTime(s string) (time.Time, error) {
	t, err := parseRFC3339(s)
	if err == nil {
		return t, nil
	}
	for _, layout := range yamlTimestampLayouts {
		if t2, err2 := time.Parse(layout, s); err2 == nil {
			return t2, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid RFC3339 time %q", s)
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

// FormatTime renders t in the canonical form ParseTime reads back.
func FormatTime(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}

package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseTime accepts RFC 3339 and zone-less ISO 8601 timestamps.
// Zone-less values are read as UTC.
func ParseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Time is a timestamp input decoded with ParseTime.
type Time time.Time

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	parsed, ok := ParseTime(raw)
	if !ok {
		return fmt.Errorf("invalid timestamp %q", raw)
	}

	*t = Time(parsed)

	return nil
}

// Ptr returns the timestamp as *time.Time, nil when t is nil.
func (t *Time) Ptr() *time.Time {
	if t == nil {
		return nil
	}

	v := time.Time(*t)

	return &v
}

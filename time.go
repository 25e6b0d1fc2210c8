package chatkit

import (
	"fmt"
	"strings"
	"time"
)

// timeLayout is ISO-8601 local time without a zone suffix. Clients must not
// assume UTC "Z" framing, so the zone is never written.
const timeLayout = "2006-01-02T15:04:05.999999"

// Time is a timestamp that serializes as ISO-8601 local time without a
// trailing zone suffix. All created_at fields in the data model use it.
type Time struct {
	time.Time
}

// Now returns the current local time as a Time.
func Now() Time {
	return Time{Time: time.Now()}
}

// NewTime wraps a time.Time.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(timeLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. Zone-suffixed inputs are
// accepted for compatibility with stores that round-trip through RFC 3339.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range []string{timeLayout, time.RFC3339Nano, time.RFC3339} {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

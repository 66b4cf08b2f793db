package entity

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// epoch values below this are taken as seconds, otherwise milliseconds
const epochMillisThreshold = 100_000_000_000

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp decodes epoch numbers, numeric strings and ISO dates. The
// zero value means the backend sent nothing.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		t.Time = time.Time{}
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	t.Time = fromEpoch(int64(n))
	return nil
}

// MarshalJSON encodes the timestamp as RFC 3339, or null when unset
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// ParseTimestamp parses the string forms accepted by Timestamp
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromEpoch(n), nil
	}

	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func fromEpoch(n int64) time.Time {
	if n < epochMillisThreshold {
		return time.Unix(n, 0).UTC()
	}
	return time.UnixMilli(n).UTC()
}

// MaxDeadlineDays is the largest deadline read as a day count rather than
// an epoch value
const MaxDeadlineDays = 366

// Deadline is a review deadline sent either as a number of days after the
// assignment was forwarded or as an absolute time
type Deadline struct {
	Timestamp
	Days int
}

// DeadlineAt returns an absolute deadline
func DeadlineAt(t time.Time) Deadline {
	return Deadline{Timestamp: Timestamp{Time: t}}
}

// DeadlineInDays returns a deadline relative to the forwarding date
func DeadlineInDays(days int) Deadline {
	return Deadline{Days: days}
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Deadline) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n <= MaxDeadlineDays {
		if n <= 0 {
			*d = Deadline{}
			return nil
		}
		*d = DeadlineInDays(int(n))
		return nil
	}
	d.Days = 0
	return d.Timestamp.UnmarshalJSON(data)
}

// MarshalJSON encodes a day count as a number, otherwise as a Timestamp
func (d Deadline) MarshalJSON() ([]byte, error) {
	if d.Days > 0 {
		return []byte(strconv.Itoa(d.Days)), nil
	}
	return d.Timestamp.MarshalJSON()
}

// Resolve returns the absolute deadline. A day count needs the forwarding
// date and resolves to the zero time without one.
func (d Deadline) Resolve(forwarded time.Time) time.Time {
	if d.Days > 0 {
		if forwarded.IsZero() {
			return time.Time{}
		}
		return forwarded.AddDate(0, 0, d.Days)
	}
	return d.Time
}

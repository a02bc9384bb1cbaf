package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Date is a period start as sent in the backend's "ds" field.
// Values are normalized to UTC.
type Date struct {
	time.Time
}

// dateLayouts are tried in order. Flask serializes pandas timestamps as HTTP dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	http.TimeFormat,
	time.RFC1123Z,
}

// NewDate builds a Date from calendar parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses any of the accepted "ds" encodings.
func ParseDate(s string) (Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t.UTC()}, nil
		}
	}
	return Date{}, fmt.Errorf("unrecognized date %q", s)
}

// UnmarshalJSON accepts a date string or epoch milliseconds.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}

	if len(data) > 0 && data[0] != '"' {
		ms, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid epoch date %s: %w", data, err)
		}
		*d = Date{time.UnixMilli(ms).UTC()}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON writes the calendar date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// MonthAbbr returns the three-letter English month name, e.g. "Jan".
func (d Date) MonthAbbr() string {
	return d.Month().String()[:3]
}

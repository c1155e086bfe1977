package request

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar days
const DateLayout = "2006-01-02"

// Date is a calendar day encoded as "YYYY-MM-DD"
type Date struct {
	time.Time
}

// UnmarshalJSON parses "YYYY-MM-DD"; an empty string leaves the zero date
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseDate parses a calendar day in UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// TimePtr returns the date as a *time.Time, or nil for a nil Date
func (d *Date) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

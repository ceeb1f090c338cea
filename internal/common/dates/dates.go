// Package dates handles calendar dates (no time of day) as they travel over JSON,
// query strings and the users.birth_date column.
package dates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AlibekovAA/user-registry/internal/common/constants"
)

// Date is a calendar date normalized to midnight UTC. The zero value means "not set".
type Date struct {
	time.Time
}

func New(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func FromTime(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return New(t.Year(), t.Month(), t.Day())
}

func Parse(value string) (Date, error) {
	t, err := time.Parse(constants.DateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(constants.DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Today is the calendar date of now in UTC.
func Today(now time.Time) time.Time {
	return FromTime(now.UTC()).Time
}

// YearsBetween counts whole calendar years from start to end. A birthday on
// Feb 29 is only reached on Feb 29 or from Mar 1 onwards.
func YearsBetween(start, end time.Time) int {
	years := end.Year() - start.Year()
	if end.Month() < start.Month() || (end.Month() == start.Month() && end.Day() < start.Day()) {
		years--
	}
	return years
}

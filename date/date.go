// Package date provides a calendar date type with day granularity.
//
// The portfolio service sends full timestamps ("2024-03-05T10:00:00Z") where the
// dashboard only cares about the calendar day. Date drops the time of day and the
// timezone offset after converting the instant to UTC.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// timestampFormats are tried in order when a value is not a plain date.
var timestampFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05", // no offset: already UTC for the service
	"2006-01-02 15:04:05",
}

// Date represents a date with day-level granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Of returns the UTC calendar day of t.
func Of(t time.Time) Date { return New(t.UTC().Date()) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// String format the date in its standard format.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(DateFormat)
}

// Parse parses a Date from a string. It is lenient and accepts formats like "2025-7-1"
// as well as full timestamps, whose time of day and offset are discarded after
// conversion to UTC.
func Parse(str string) (Date, error) {
	if on, err := time.Parse(readDateFormat, str); err == nil {
		return New(on.Date()), nil
	}
	for _, layout := range timestampFormats {
		if on, err := time.Parse(layout, str); err == nil {
			return Of(on), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q want format %q or RFC3339", str, DateFormat)
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
// An empty string or null leaves the zero Date.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str *string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if str == nil || *str == "" {
		*j = Date{}
		return nil
	}
	d, err := Parse(*str)
	if err != nil {
		return err
	}
	*j = d
	return nil
}

func (j Date) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)

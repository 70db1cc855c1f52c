package journal

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a local calendar date. Two entries belong to the same day when
// their Days are equal; the instant an entry was written never matters.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Today returns the calendar day of now in loc.
func Today(now time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	return DayOf(now.In(loc))
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: want YYYY-MM-DD", s)
	}
	return DayOf(t), nil
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Day) IsZero() bool { return d == Day{} }

// midnight is the UTC midnight of d; only used for calendar arithmetic so
// DST transitions in the user's zone cannot skew day counts.
func (d Day) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Day) AddDays(n int) Day {
	return DayOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// Sub returns the number of calendar days from o to d.
func (d Day) Sub(o Day) int {
	return int(d.midnight().Sub(o.midnight()).Hours() / 24)
}

func (d Day) Before(o Day) bool { return d.midnight().Before(o.midnight()) }

// In returns local midnight of d in loc.
func (d Day) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Day) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Day) UnmarshalText(b []byte) error {
	p, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = p
	return nil
}

func (d Day) Value() (driver.Value, error) { return d.String(), nil }

func (d *Day) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	case time.Time:
		// date columns come back as UTC midnight
		*d = DayOf(v.UTC())
		return nil
	case nil:
		return errors.New("journal: NULL day")
	default:
		return fmt.Errorf("journal: cannot scan %T into Day", src)
	}
}

package calendar

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a civil calendar date with no time-of-day and no location.
// Converting to a timestamp always requires an explicit *time.Location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns a normalized Date, so NewDate(2024, 1, 32) is 2024-02-01.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// YearStart returns January 1st of year.
func YearStart(year int) Date { return Date{Year: year, Month: time.January, Day: 1} }

// YearEnd returns December 31st of year.
func YearEnd(year int) Date { return Date{Year: year, Month: time.December, Day: 31} }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// At returns the timestamp of the wall-clock c on d in loc. On clock-change
// days this is the wall time, not midnight plus c.
func (d Date) At(c Clock, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, int(c.Duration()), loc)
}

// AddDays returns d shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.utc().AddDate(0, 0, n))
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday { return d.utc().Weekday() }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after u.
func (d Date) Compare(u Date) int { return d.utc().Compare(u.utc()) }

func (d Date) Before(u Date) bool { return d.Compare(u) < 0 }
func (d Date) After(u Date) bool  { return d.Compare(u) > 0 }
func (d Date) Equal(u Date) bool  { return d == u }

// DaysUntil returns the number of days from d to u (negative when u is earlier).
func (d Date) DaysUntil(u Date) int {
	return int(u.utc().Sub(d.utc()).Hours() / 24)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Days returns every date from start through end inclusive. It returns nil when end is before start.
func Days(start, end Date) []Date {
	if end.Before(start) {
		return nil
	}
	days := make([]Date, 0, start.DaysUntil(end)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// WeekStart returns the Monday of d's week. Weeks always start on Monday
// regardless of locale.
func WeekStart(d Date) Date {
	wd := int(d.Weekday())
	if wd == 0 {
		return d.AddDays(-6)
	}
	return d.AddDays(-(wd - 1))
}

// StartOfDay returns 00:00:00.000 of t's date in t's location.
func StartOfDay(t time.Time) time.Time {
	return DateOf(t).In(t.Location())
}

// EndOfDay returns 23:59:59.999 of t's date in t's location.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

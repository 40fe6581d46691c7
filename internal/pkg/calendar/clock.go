package calendar

import (
	"fmt"
	"time"
)

// Clock is a wall-clock time of day, stored as milliseconds since midnight.
type Clock int64

const msPerDay = int64(24 * time.Hour / time.Millisecond)

// NewClock builds a Clock from hours, minutes and seconds.
func NewClock(hour, minute, second int) Clock {
	return Clock((int64(hour)*3600 + int64(minute)*60 + int64(second)) * 1000)
}

// ClockOf returns the wall-clock of t in t's location.
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute(), t.Second()) + Clock(t.Nanosecond()/int(time.Millisecond))
}

// ParseClock accepts "15:04" or "15:04:05".
func ParseClock(s string) (Clock, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewClock(t.Hour(), t.Minute(), t.Second()), nil
		}
	}
	return 0, fmt.Errorf("invalid clock %q: expected HH:MM or HH:MM:SS", s)
}

// MustParseClock is ParseClock for literals.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Duration returns the offset from midnight.
func (c Clock) Duration() time.Duration { return time.Duration(c) * time.Millisecond }

// Valid reports whether c falls inside a single day.
func (c Clock) Valid() bool { return c >= 0 && int64(c) < msPerDay }

func (c Clock) String() string {
	total := int64(c) / 1000
	h, m, s := total/3600, (total%3600)/60, total%60
	if s == 0 {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

package schedule

import (
	"time"

	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
)

// Row is one stored per-date schedule entry with a morning block and an
// optional afternoon block.
type Row struct {
	Date             calendar.Date
	MorningStart     *calendar.Clock
	MorningEnd       *calendar.Clock
	AfternoonStart   *calendar.Clock
	AfternoonEnd     *calendar.Clock
	AfternoonEnabled bool
}

// HasMorning reports whether the row carries a complete morning window.
func (r Row) HasMorning() bool {
	return r.MorningStart != nil && r.MorningEnd != nil
}

// Day flattens the row into a single start/end window. The window ends at the
// afternoon end when the afternoon block is enabled, otherwise at the morning end.
func (r Row) Day() Day {
	if !r.HasMorning() {
		return Day{Weekday: r.Date.Weekday()}
	}

	end := *r.MorningEnd
	if r.AfternoonEnabled && r.AfternoonEnd != nil {
		end = *r.AfternoonEnd
	}

	return Day{
		Weekday: r.Date.Weekday(),
		Start:   *r.MorningStart,
		End:     end,
		Working: true,
	}
}

// Day is the flattened schedule of one weekday.
type Day struct {
	Weekday time.Weekday
	Start   calendar.Clock
	End     calendar.Clock
	Working bool
}

// EndsNextDay reports whether the window wraps past midnight.
func (d Day) EndsNextDay() bool {
	return d.Working && d.End <= d.Start
}

// ScheduledMs is the length of the window in milliseconds, 0 when not working.
func (d Day) ScheduledMs() int64 {
	if !d.Working {
		return 0
	}
	ms := int64(d.End - d.Start)
	if d.EndsNextDay() {
		ms += int64(24 * time.Hour / time.Millisecond)
	}
	return ms
}

// StartOn returns the scheduled start timestamp on date.
func (d Day) StartOn(date calendar.Date, loc *time.Location) time.Time {
	return date.At(d.Start, loc)
}

// EndOn returns the scheduled end timestamp for a shift starting on date.
func (d Day) EndOn(date calendar.Date, loc *time.Location) time.Time {
	if d.EndsNextDay() {
		return date.AddDays(1).At(d.End, loc)
	}
	return date.At(d.End, loc)
}

// Week holds at most one Day per weekday.
type Week map[time.Weekday]Day

// WorkingOn returns the schedule for date when it is a working day.
func (w Week) WorkingOn(date calendar.Date) (Day, bool) {
	d, ok := w[date.Weekday()]
	if !ok || !d.Working {
		return Day{}, false
	}
	return d, true
}

// ScheduledMsOn is the scheduled length of date, 0 for rest days.
func (w Week) ScheduledMsOn(date calendar.Date) int64 {
	d, ok := w.WorkingOn(date)
	if !ok {
		return 0
	}
	return d.ScheduledMs()
}

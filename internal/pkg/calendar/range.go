package calendar

import "time"

// Range is an inclusive timestamp interval [Start, End].
type Range struct {
	Start time.Time
	End   time.Time
}

// DayRange covers d from 00:00:00.000 through 23:59:59.999 in loc.
func DayRange(d Date, loc *time.Location) Range {
	start := d.In(loc)
	return Range{Start: start, End: EndOfDay(start)}
}

// DatesRange covers start 00:00:00.000 through end 23:59:59.999 in loc.
func DatesRange(start, end Date, loc *time.Location) Range {
	return Range{Start: start.In(loc), End: EndOfDay(end.In(loc))}
}

// WeekRange covers the Monday-start week containing d.
func WeekRange(d Date, loc *time.Location) Range {
	monday := WeekStart(d)
	return DatesRange(monday, monday.AddDays(6), loc)
}

// Overlaps reports whether [start, end] intersects r.
func (r Range) Overlaps(start, end time.Time) bool {
	return !end.Before(r.Start) && !start.After(r.End)
}

// Clip narrows [start, end] to r. Callers check Overlaps first.
func (r Range) Clip(start, end time.Time) (time.Time, time.Time) {
	if start.Before(r.Start) {
		start = r.Start
	}
	if end.After(r.End) {
		end = r.End
	}
	return start, end
}

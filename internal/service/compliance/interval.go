package compliance

import (
	"time"

	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
)

const msPerHour = float64(time.Hour / time.Millisecond)

// Hours is the measured content of one segment.
type Hours struct {
	TotalHours float64
	NightHours float64
	WorkedMs   int64
}

// NightWindow is the nightly band, from StartHour on the clock-in's date to
// EndHour on the following date.
type NightWindow struct {
	StartHour int
	EndHour   int
}

// DefaultNightWindow is 22:00 through 06:00.
var DefaultNightWindow = NightWindow{StartHour: 22, EndHour: 6}

// SegmentHours measures a segment against the default night window.
func SegmentHours(clockIn, clockOut time.Time, breakMs int64) Hours {
	return DefaultNightWindow.SegmentHours(clockIn, clockOut, breakMs)
}

// SegmentHours returns worked and night hours of [clockIn, clockOut] minus
// breakMs. A clock-out earlier than the clock-in is taken to be on the next day.
func (w NightWindow) SegmentHours(clockIn, clockOut time.Time, breakMs int64) Hours {
	if clockOut.Before(clockIn) {
		clockOut = clockOut.Add(24 * time.Hour)
	}

	grossMs := max(0, clockOut.Sub(clockIn).Milliseconds())
	workedMs := max(0, grossMs-breakMs)
	total := float64(workedMs) / msPerHour

	anchor := calendar.DateOf(clockIn)
	nightStart := anchor.At(calendar.NewClock(w.StartHour, 0, 0), clockIn.Location())
	nightEnd := anchor.AddDays(1).At(calendar.NewClock(w.EndHour, 0, 0), clockIn.Location())

	overlapStart := clockIn
	if nightStart.After(overlapStart) {
		overlapStart = nightStart
	}
	overlapEnd := clockOut
	if nightEnd.Before(overlapEnd) {
		overlapEnd = nightEnd
	}

	var night float64
	if overlapEnd.After(overlapStart) {
		night = float64(overlapEnd.Sub(overlapStart).Milliseconds()) / msPerHour
	}
	night = min(max(night, 0), total)

	return Hours{TotalHours: total, NightHours: night, WorkedMs: workedMs}
}

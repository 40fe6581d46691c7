package compliance

import (
	"time"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
)

// Totals is the sum of worked time over a window.
type Totals struct {
	WorkedMs   int64
	NightHours float64
}

// WorkedHours converts WorkedMs to hours.
func (t Totals) WorkedHours() float64 {
	return float64(t.WorkedMs) / msPerHour
}

// SumWorked builds segments from events and sums them over window. A nil
// window sums everything.
func SumWorked(events []punch.Event, window *calendar.Range, now time.Time) Totals {
	return SumSegments(BuildSegments(events, now), window, DefaultNightWindow)
}

// SumSegments sums already built segments, clipping each to window. Segments
// entirely outside the window are skipped.
func SumSegments(segments []Segment, window *calendar.Range, night NightWindow) Totals {
	var totals Totals
	for _, seg := range segments {
		in, out := seg.ClockIn, seg.ClockOut
		if window != nil {
			if !window.Overlaps(in, out) {
				continue
			}
			in, out = window.Clip(in, out)
		}

		h := night.SegmentHours(in, out, seg.BreakMs)
		totals.WorkedMs += h.WorkedMs
		totals.NightHours += h.NightHours
	}
	return totals
}

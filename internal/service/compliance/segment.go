package compliance

import (
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
)

// Segment is one reconstructed work session.
type Segment struct {
	ClockIn  time.Time
	ClockOut time.Time
	BreakMs  int64
}

// BuildSegments turns the punches of one employee into ordered, non-overlapping
// work sessions. Inactive punches are ignored. A clock-in that arrives while a
// session is still open truncates the stale session to the end of its own day
// (or to the new clock-in, whichever comes first); a session still open after
// the last punch is closed at now.
func BuildSegments(events []punch.Event, now time.Time) []Segment {
	active := make([]punch.Event, 0, len(events))
	for _, e := range events {
		if e.Active {
			active = append(active, e)
		}
	}
	slices.SortStableFunc(active, func(a, b punch.Event) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	segments := make([]Segment, 0, len(active)/2)

	var (
		openClockIn *time.Time
		openBreak   *time.Time
		accumulated int64
	)

	closeAt := func(out time.Time) {
		segments = append(segments, Segment{
			ClockIn:  *openClockIn,
			ClockOut: out,
			BreakMs:  accumulated,
		})
		openClockIn, openBreak, accumulated = nil, nil, 0
	}

	for _, e := range active {
		ts := e.Timestamp

		switch e.Kind {
		case punch.KindClockIn:
			if openClockIn != nil {
				stale := calendar.EndOfDay(*openClockIn)
				if ts.Before(stale) {
					stale = ts
				}
				closeAt(stale)
			}
			openClockIn = &ts
			openBreak, accumulated = nil, 0

		case punch.KindBreakStart:
			if openClockIn != nil && openBreak == nil {
				openBreak = &ts
			}

		case punch.KindBreakEnd:
			if openClockIn != nil && openBreak != nil {
				accumulated += max(0, ts.Sub(*openBreak).Milliseconds())
				openBreak = nil
			}

		case punch.KindClockOut:
			if openClockIn != nil {
				closeAt(ts)
			}
		}
	}

	if openClockIn != nil {
		closeAt(now)
	}

	return segments
}

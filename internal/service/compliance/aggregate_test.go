package compliance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
	"github.com/stretchr/testify/assert"
)

func TestSumWorked_Unbounded(t *testing.T) {
	events := append(shift("2024-01-01", "09:00", "17:00"), shift("2024-01-02", "22:00", "23:30")...)

	totals := SumWorked(events, nil, ts("2024-01-03 00:00"))

	assert.Equal(t, (9*time.Hour + 30*time.Minute).Milliseconds(), totals.WorkedMs)
	assert.InDelta(t, 9.5, totals.WorkedHours(), 1e-9)
	assert.InDelta(t, 1.5, totals.NightHours, 1e-9)
}

func TestSumWorked_ClipsToWindow(t *testing.T) {
	events := []punch.Event{
		in("2024-01-01 22:00"),
		out("2024-01-02 02:00"),
		in("2024-01-02 09:00"),
		out("2024-01-02 12:00"),
		in("2024-01-03 09:00"),
		out("2024-01-03 10:00"),
	}
	window := calendar.DayRange(calendar.MustParseDate("2024-01-02"), time.UTC)

	totals := SumWorked(events, &window, ts("2024-01-04 00:00"))

	assert.InDelta(t, 5.0, totals.WorkedHours(), 1e-6)
}

func TestSumWorked_WeekWindow(t *testing.T) {
	var events []punch.Event
	for _, d := range []string{"2024-01-07", "2024-01-08", "2024-01-14", "2024-01-15"} {
		events = append(events, shift(d, "09:00", "11:00")...)
	}
	week := calendar.WeekRange(calendar.MustParseDate("2024-01-10"), time.UTC)

	totals := SumWorked(events, &week, ts("2024-01-20 00:00"))

	// Only Monday the 8th and Sunday the 14th fall inside.
	assert.InDelta(t, 4.0, totals.WorkedHours(), 1e-9)
}

func TestSumSegments_ReusesSegments(t *testing.T) {
	segs := BuildSegments(append(shift("2024-01-01", "09:00", "17:00"), shift("2024-01-02", "09:00", "13:00")...), ts("2024-01-03 00:00"))

	day1 := calendar.DayRange(calendar.MustParseDate("2024-01-01"), time.UTC)
	day2 := calendar.DayRange(calendar.MustParseDate("2024-01-02"), time.UTC)

	assert.InDelta(t, 8.0, SumSegments(segs, &day1, DefaultNightWindow).WorkedHours(), 1e-9)
	assert.InDelta(t, 4.0, SumSegments(segs, &day2, DefaultNightWindow).WorkedHours(), 1e-9)
	assert.InDelta(t, 12.0, SumSegments(segs, nil, DefaultNightWindow).WorkedHours(), 1e-9)
}

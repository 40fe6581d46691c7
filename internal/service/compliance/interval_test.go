package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSegmentHours(t *testing.T) {
	hour := time.Hour.Milliseconds()

	cases := []struct {
		name      string
		in, out   string
		breakMs   int64
		wantTotal float64
		wantNight float64
	}{
		{"day shift with lunch", "2024-01-01 09:00", "2024-01-01 17:00", hour, 7, 0},
		{"crosses midnight", "2024-01-01 23:00", "2024-01-02 01:00", 0, 2, 2},
		{"clock-out on wall clock only", "2024-01-01 23:00", "2024-01-01 01:00", 0, 2, 2},
		{"full night", "2024-01-01 20:00", "2024-01-02 08:00", 0, 12, 8},
		{"night clamped to worked time", "2024-01-01 22:00", "2024-01-02 02:00", 3 * hour, 1, 1},
		{"break longer than session", "2024-01-01 09:00", "2024-01-01 10:00", 2 * hour, 0, 0},
		{"early morning is anchored to its own evening", "2024-01-01 04:00", "2024-01-01 08:00", 0, 4, 0},
		{"evening edge", "2024-01-01 18:00", "2024-01-01 22:30", 0, 4.5, 0.5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := SegmentHours(ts(c.in), ts(c.out), c.breakMs)
			assert.InDelta(t, c.wantTotal, h.TotalHours, 1e-9)
			assert.InDelta(t, c.wantNight, h.NightHours, 1e-9)
			assert.Equal(t, int64(c.wantTotal*float64(hour)), h.WorkedMs)
		})
	}
}

func TestSegmentHours_NightNeverExceedsTotal(t *testing.T) {
	start := ts("2024-01-01 00:00")
	for inH := 0; inH < 24; inH += 3 {
		for length := 0; length <= 14; length += 2 {
			for _, br := range []time.Duration{0, 30 * time.Minute, 3 * time.Hour, 20 * time.Hour} {
				clockIn := start.Add(time.Duration(inH) * time.Hour)
				clockOut := clockIn.Add(time.Duration(length) * time.Hour)

				h := SegmentHours(clockIn, clockOut, br.Milliseconds())

				assert.GreaterOrEqual(t, h.NightHours, 0.0)
				assert.LessOrEqual(t, h.NightHours, h.TotalHours, "in=%s len=%dh break=%s", clockIn, length, br)
			}
		}
	}
}

func TestNightWindow_Custom(t *testing.T) {
	w := NightWindow{StartHour: 21, EndHour: 7}
	h := w.SegmentHours(ts("2024-01-01 20:00"), ts("2024-01-02 08:00"), 0)

	assert.InDelta(t, 10.0, h.NightHours, 1e-9)
}

package compliance

import (
	"slices"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/schedule"
)

// FlattenSchedule reduces per-date rows to one Day per weekday. The earliest
// row of each weekday that has a morning window wins; later rows for the same
// weekday are ignored even when they differ. Weekdays without such a row are
// rest days.
func FlattenSchedule(rows []schedule.Row) schedule.Week {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b schedule.Row) int {
		return a.Date.Compare(b.Date)
	})

	week := make(schedule.Week, 7)
	for _, row := range sorted {
		if !row.HasMorning() {
			continue
		}
		wd := row.Date.Weekday()
		if _, ok := week[wd]; ok {
			continue
		}
		week[wd] = row.Day()
	}
	return week
}

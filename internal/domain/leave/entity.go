package leave

import "github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"

// VacationPeriod is an approved vacation, inclusive on both ends.
type VacationPeriod struct {
	SubjectID string
	StartDate calendar.Date
	EndDate   calendar.Date
}

// Covers reports whether d falls inside the vacation.
func (v VacationPeriod) Covers(d calendar.Date) bool {
	return !d.Before(v.StartDate) && !d.After(v.EndDate)
}

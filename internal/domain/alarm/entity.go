package alarm

import (
	"time"

	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
)

// Kind identifies the compliance rule that raised an alarm.
type Kind string

const (
	KindLateClockIn         Kind = "late_clock_in"
	KindMissedClockIn       Kind = "missed_clock_in"
	KindMissedClockOut      Kind = "missed_clock_out"
	KindOvertime            Kind = "overtime"
	KindWorkShortfall       Kind = "work_shortfall"
	KindWorkedVacation      Kind = "worked_vacation"
	KindWeeklyLimitExceeded Kind = "weekly_45h_exceeded"
	KindAnnualLimitExceeded Kind = "annual_hours_exceeded"
)

// AllKinds returns every rule kind in evaluation order.
func AllKinds() []Kind {
	return []Kind{
		KindLateClockIn,
		KindMissedClockIn,
		KindMissedClockOut,
		KindOvertime,
		KindWorkShortfall,
		KindWorkedVacation,
		KindWeeklyLimitExceeded,
		KindAnnualLimitExceeded,
	}
}

// KindValues lists the kinds as strings for request validation.
func KindValues() []string {
	kinds := AllKinds()
	values := make([]string, len(kinds))
	for i, k := range kinds {
		values[i] = string(k)
	}
	return values
}

func (k Kind) Valid() bool {
	for _, known := range AllKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Candidate is a proposed alarm produced by one evaluation run, before
// de-duplication against stored alarms.
type Candidate struct {
	Kind          Kind
	SubjectID     string
	SupervisorID  string
	Date          calendar.Date
	Description   string
	HoursInvolved float64
}

// Key is the de-duplication key of the alarm store.
type Key struct {
	SubjectID string
	Kind      Kind
	Date      calendar.Date
}

func (c Candidate) Key() Key {
	return Key{SubjectID: c.SubjectID, Kind: c.Kind, Date: c.Date}
}

// Alarm is a stored candidate.
type Alarm struct {
	ID        string
	CompanyID string
	Candidate
	Notified  bool
	CreatedAt time.Time

	// DTO
	EmployeeName *string
}

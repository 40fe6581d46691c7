package leave

import (
	"context"

	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
)

// VacationRepository reads approved vacations.
type VacationRepository interface {
	// FetchVacations returns approved vacations of the subject overlapping [start, end].
	FetchVacations(ctx context.Context, subjectID string, start, end calendar.Date) ([]VacationPeriod, error)
}

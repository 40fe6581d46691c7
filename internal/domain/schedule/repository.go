package schedule

import (
	"context"

	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
)

// Repository reads the per-date schedule rows of an employee.
type Repository interface {
	// FetchScheduleRows returns rows with Date in [start, end], ordered by date.
	FetchScheduleRows(ctx context.Context, subjectID string, start, end calendar.Date) ([]Row, error)
}

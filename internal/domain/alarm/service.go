package alarm

import (
	"context"

	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
)

// ComplianceService evaluates compliance rules and manages the resulting alarms.
type ComplianceService interface {
	// Evaluate runs every rule for one employee over a date range and stores new alarms.
	Evaluate(ctx context.Context, req EvaluateRequest) (EvaluateResponse, error)

	// EvaluateAll runs Evaluate for every evaluable employee; one employee's
	// failure never stops the others.
	EvaluateAll(ctx context.Context, start, end calendar.Date) (BatchSummary, error)

	// ListAlarms retrieves stored alarms (manager/owner).
	ListAlarms(ctx context.Context, filter AlarmFilter) (ListAlarmResponse, error)
}

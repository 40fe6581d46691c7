package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/alarm"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/logger"
)

// ComplianceJobs re-evaluates recent days for every evaluable employee.
type ComplianceJobs struct {
	complianceService alarm.ComplianceService
	location          *time.Location
	runHour           int
	lookbackDays      int
	now               func() time.Time
}

func NewComplianceJobs(
	complianceService alarm.ComplianceService,
	location *time.Location,
	runHour int,
	lookbackDays int,
	now func() time.Time,
) *ComplianceJobs {
	if location == nil {
		location = time.UTC
	}
	if lookbackDays < 1 {
		lookbackDays = 1
	}
	if now == nil {
		now = time.Now
	}
	return &ComplianceJobs{
		complianceService: complianceService,
		location:          location,
		runHour:           runHour,
		lookbackDays:      lookbackDays,
		now:               now,
	}
}

func (j *ComplianceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("evaluate_recent_compliance", 1*time.Hour, j.EvaluateRecent)
}

// EvaluateRecent evaluates the lookback window ending yesterday. It only acts
// during the configured local hour; the hourly ticker makes it run once a day.
func (j *ComplianceJobs) EvaluateRecent(ctx context.Context) error {
	now := j.now().In(j.location)
	if now.Hour() != j.runHour {
		return nil
	}

	end := calendar.DateOf(now).AddDays(-1)
	start := end.AddDays(-(j.lookbackDays - 1))

	logger.InfoKV(ctx, "cron: starting compliance evaluation", "start_date", start.String(), "end_date", end.String())

	summary, err := j.complianceService.EvaluateAll(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to evaluate compliance: %w", err)
	}

	logger.InfoKV(ctx, "cron: compliance evaluation completed",
		"employees", summary.Employees,
		"failed", summary.Failed,
		"candidates", summary.Candidates,
		"inserted", summary.Inserted,
	)
	return nil
}

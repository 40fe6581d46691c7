package compliance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/alarm"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Orchestrator runs every rule for one employee and range.
type Orchestrator struct {
	schedules schedule.Repository
	evaluator *Evaluator
}

func NewOrchestrator(schedules schedule.Repository, evaluator *Evaluator) *Orchestrator {
	return &Orchestrator{
		schedules: schedules,
		evaluator: evaluator,
	}
}

// Evaluator exposes the rule set for single-rule callers.
func (o *Orchestrator) Evaluator() *Evaluator {
	return o.evaluator
}

// RunAll evaluates all rules concurrently and returns their candidates joined
// in rule order, each stamped with the employee and supervisor. It returns nil
// when the employee has no schedule rows in the range. The annual rule always
// looks at the current year.
func (o *Orchestrator) RunAll(ctx context.Context, subjectID, supervisorID string, start, end calendar.Date) []alarm.Candidate {
	ctx = logger.WithKV(ctx, "employee_id", subjectID)
	began := time.Now()

	rows, ok := read(ctx, o.evaluator, "schedule", subjectID, func(ctx context.Context) ([]schedule.Row, error) {
		return o.schedules.FetchScheduleRows(ctx, subjectID, start, end)
	})
	if !ok || len(rows) == 0 {
		logger.DebugKV(ctx, "no schedule in range, skipping evaluation",
			"start_date", start.String(),
			"end_date", end.String(),
		)
		return nil
	}
	week := FlattenSchedule(rows)
	year := o.evaluator.Now().Year()

	e := o.evaluator
	runs := []func(context.Context) []alarm.Candidate{
		func(ctx context.Context) []alarm.Candidate { return e.LateClockIns(ctx, subjectID, week, start, end) },
		func(ctx context.Context) []alarm.Candidate { return e.MissedClockIns(ctx, subjectID, week, start, end) },
		func(ctx context.Context) []alarm.Candidate { return e.MissedClockOuts(ctx, subjectID, week, start, end) },
		func(ctx context.Context) []alarm.Candidate { return e.Overtime(ctx, subjectID, week, start, end) },
		func(ctx context.Context) []alarm.Candidate { return e.Shortfall(ctx, subjectID, week, start, end) },
		func(ctx context.Context) []alarm.Candidate { return e.WorkedVacation(ctx, subjectID, start, end) },
		func(ctx context.Context) []alarm.Candidate { return e.WeeklyLimit(ctx, subjectID, start, end) },
		func(ctx context.Context) []alarm.Candidate { return e.AnnualLimit(ctx, subjectID, year) },
	}

	results := make([][]alarm.Candidate, len(runs))
	g, gctx := errgroup.WithContext(ctx)
	for i, run := range runs {
		i, run := i, run
		g.Go(func() error {
			results[i] = run(gctx)
			return nil
		})
	}
	_ = g.Wait()

	var out []alarm.Candidate
	for _, rs := range results {
		for _, c := range rs {
			c.SubjectID = subjectID
			c.SupervisorID = supervisorID
			out = append(out, c)
		}
	}

	logger.DebugKV(ctx, "compliance evaluation finished",
		"start_date", start.String(),
		"end_date", end.String(),
		"candidates", len(out),
		"elapsed", time.Since(began).String(),
	)
	return out
}

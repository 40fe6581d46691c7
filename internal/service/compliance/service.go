package compliance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/alarm"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/user"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/logger"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/sync/errgroup"
)

type complianceServiceImpl struct {
	orchestrator        *Orchestrator
	employeeRepo        employee.EmployeeRepository
	alarmRepo           alarm.Repository
	notificationService notification.Service
	workers             int
}

// NewComplianceService wires the orchestrator to the alarm store. A nil
// notification service disables notifications.
func NewComplianceService(
	orchestrator *Orchestrator,
	employeeRepo employee.EmployeeRepository,
	alarmRepo alarm.Repository,
	notificationService notification.Service,
	workers int,
) alarm.ComplianceService {
	if workers < 1 {
		workers = 4
	}
	return &complianceServiceImpl{
		orchestrator:        orchestrator,
		employeeRepo:        employeeRepo,
		alarmRepo:           alarmRepo,
		notificationService: notificationService,
		workers:             workers,
	}
}

// Evaluate implements alarm.ComplianceService.
func (s *complianceServiceImpl) Evaluate(ctx context.Context, req alarm.EvaluateRequest) (alarm.EvaluateResponse, error) {
	if err := req.Validate(); err != nil {
		return alarm.EvaluateResponse{}, err
	}

	if companyID, ok := claimString(ctx, "company_id"); ok {
		req.CompanyID = companyID
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return alarm.EvaluateResponse{}, err
	}
	if req.CompanyID != "" && emp.CompanyID != req.CompanyID {
		return alarm.EvaluateResponse{}, employee.ErrEmployeeNotFound
	}

	supervisor, err := s.resolveSupervisor(ctx, emp, req.SupervisorID)
	if err != nil {
		return alarm.EvaluateResponse{}, err
	}

	start, end := req.Range()
	result, err := s.evaluate(ctx, emp, supervisor, start, end, req.DryRun)
	if err != nil {
		return alarm.EvaluateResponse{}, err
	}

	responses := make([]alarm.AlarmResponse, len(result.candidates))
	for i, c := range result.candidates {
		responses[i] = alarm.CandidateToResponse(c)
	}

	return alarm.EvaluateResponse{
		EmployeeID:   emp.ID,
		SupervisorID: supervisor.ID,
		StartDate:    start.String(),
		EndDate:      end.String(),
		DryRun:       req.DryRun,
		Candidates:   responses,
		Inserted:     len(result.inserted),
		Duplicates:   result.duplicates(),
	}, nil
}

// resolveSupervisor prefers an explicit override over the stored supervisor.
func (s *complianceServiceImpl) resolveSupervisor(ctx context.Context, emp employee.Employee, override *string) (employee.Employee, error) {
	supervisorID := ""
	switch {
	case override != nil && *override != "":
		supervisorID = *override
	case emp.HasSupervisor():
		supervisorID = *emp.SupervisorID
	default:
		return employee.Employee{}, employee.ErrSupervisorNotFound
	}

	supervisor, err := s.employeeRepo.GetByID(ctx, supervisorID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrSupervisorNotFound
		}
		return employee.Employee{}, err
	}
	if supervisor.CompanyID != emp.CompanyID {
		return employee.Employee{}, employee.ErrSupervisorNotFound
	}
	return supervisor, nil
}

type evaluation struct {
	candidates []alarm.Candidate
	inserted   []alarm.Alarm
}

func (e evaluation) duplicates() int {
	return len(e.candidates) - len(e.inserted)
}

func (s *complianceServiceImpl) evaluate(ctx context.Context, emp, supervisor employee.Employee, start, end calendar.Date, dryRun bool) (evaluation, error) {
	candidates := s.orchestrator.RunAll(ctx, emp.ID, supervisor.ID, start, end)
	if dryRun || len(candidates) == 0 {
		return evaluation{candidates: candidates}, nil
	}

	inserted, err := s.alarmRepo.UpsertCandidates(ctx, emp.CompanyID, candidates)
	if err != nil {
		return evaluation{}, fmt.Errorf("failed to store alarms: %w", err)
	}

	s.notifySupervisor(ctx, emp, supervisor, inserted)

	return evaluation{candidates: candidates, inserted: inserted}, nil
}

// notifySupervisor queues one notification per new alarm. An alarm is marked
// notified only after its notification is stored; until then it keeps
// notified=false.
func (s *complianceServiceImpl) notifySupervisor(ctx context.Context, emp, supervisor employee.Employee, inserted []alarm.Alarm) {
	if s.notificationService == nil || len(inserted) == 0 {
		return
	}
	if supervisor.UserID == nil || *supervisor.UserID == "" {
		logger.WarnKV(ctx, "supervisor has no user account, alarms not notified",
			"employee_id", emp.ID,
			"supervisor_id", supervisor.ID,
		)
		return
	}

	reqs := make([]notification.CreateNotificationRequest, len(inserted))
	for i, a := range inserted {
		a := a
		reqs[i] = notification.CreateNotificationRequest{
			CompanyID:   emp.CompanyID,
			RecipientID: *supervisor.UserID,
			Type:        notification.TypeComplianceAlarm,
			Title:       fmt.Sprintf("%s: %s", emp.FullName, a.Kind),
			Message:     a.Description,
			Data: map[string]interface{}{
				"alarm_id":       a.ID,
				"type":           string(a.Kind),
				"employee_id":    emp.ID,
				"date":           a.Date.String(),
				"hours_involved": a.HoursInvolved,
			},
			OnPersisted: func(ctx context.Context) {
				if err := s.alarmRepo.MarkNotified(ctx, []string{a.ID}); err != nil {
					logger.WarnKV(ctx, "failed to mark alarm notified", "alarm_id", a.ID, "error", err.Error())
				}
			},
		}
	}

	if err := s.notificationService.QueueBulkNotification(ctx, reqs); err != nil {
		logger.WarnKV(ctx, "failed to queue alarm notifications", "count", len(reqs), "error", err.Error())
	}
}

// EvaluateAll implements alarm.ComplianceService.
func (s *complianceServiceImpl) EvaluateAll(ctx context.Context, start, end calendar.Date) (alarm.BatchSummary, error) {
	if end.Before(start) {
		return alarm.BatchSummary{}, alarm.ErrInvalidDateRange
	}

	employees, err := s.employeeRepo.ListEvaluable(ctx)
	if err != nil {
		return alarm.BatchSummary{}, fmt.Errorf("failed to list employees: %w", err)
	}

	var (
		mu      sync.Mutex
		summary = alarm.BatchSummary{Employees: len(employees)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, emp := range employees {
		emp := emp
		g.Go(func() error {
			empCtx := logger.WithKV(gctx, "employee_id", emp.ID)

			result, err := s.evaluateStored(empCtx, emp, start, end)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				logger.ErrorKV(empCtx, "compliance evaluation failed", "error", err.Error())
				return nil
			}
			summary.Candidates += len(result.candidates)
			summary.Inserted += len(result.inserted)
			return nil
		})
	}
	_ = g.Wait()

	logger.InfoKV(ctx, "compliance batch finished",
		"start_date", start.String(),
		"end_date", end.String(),
		"employees", summary.Employees,
		"failed", summary.Failed,
		"candidates", summary.Candidates,
		"inserted", summary.Inserted,
	)
	return summary, nil
}

func (s *complianceServiceImpl) evaluateStored(ctx context.Context, emp employee.Employee, start, end calendar.Date) (evaluation, error) {
	supervisor, err := s.resolveSupervisor(ctx, emp, nil)
	if err != nil {
		return evaluation{}, err
	}
	return s.evaluate(ctx, emp, supervisor, start, end, false)
}

// ListAlarms implements alarm.ComplianceService.
func (s *complianceServiceImpl) ListAlarms(ctx context.Context, filter alarm.AlarmFilter) (alarm.ListAlarmResponse, error) {
	if err := filter.Validate(); err != nil {
		return alarm.ListAlarmResponse{}, err
	}

	if companyID, ok := claimString(ctx, "company_id"); ok {
		filter.CompanyID = companyID
	}
	if filter.CompanyID == "" {
		return alarm.ListAlarmResponse{}, user.ErrCompanyIDRequired
	}

	// Managers only see alarms addressed to them.
	if role, _ := claimString(ctx, "role"); user.Role(role) == user.RoleManager {
		employeeID, ok := claimString(ctx, "employee_id")
		if !ok {
			return alarm.ListAlarmResponse{}, employee.ErrSupervisorNotFound
		}
		filter.SupervisorID = employeeID
	}

	alarms, total, err := s.alarmRepo.List(ctx, filter)
	if err != nil {
		return alarm.ListAlarmResponse{}, fmt.Errorf("failed to list alarms: %w", err)
	}

	responses := make([]alarm.AlarmResponse, len(alarms))
	for i, a := range alarms {
		responses[i] = alarm.AlarmToResponse(a)
	}

	return alarm.ListAlarmResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Showing:    calculateShowingText(filter.Page, filter.Limit, total),
		Alarms:     responses,
	}, nil
}

// calculateShowingText generates the "showing X-Y of Z results" text
func calculateShowingText(page, limit int, total int64) string {
	if total == 0 {
		return "0-0 of 0 results"
	}

	start := (page-1)*limit + 1
	end := start + limit - 1

	if end > int(total) {
		end = int(total)
	}

	return fmt.Sprintf("%d-%d of %d results", start, end, total)
}

// claimString reads a string claim of the authenticated caller. Calls from the
// scheduler or the CLI carry no token and report !ok.
func claimString(ctx context.Context, key string) (string, bool) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil || claims == nil {
		return "", false
	}
	v, ok := claims[key].(string)
	return v, ok && v != ""
}

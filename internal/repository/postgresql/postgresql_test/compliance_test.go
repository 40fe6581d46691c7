package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/alarm"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-compliance/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	companyID    = "0193a1f0-0000-7000-8000-000000000001"
	supervisorID = "0193a1f0-0000-7000-8000-000000000010"
	employeeID   = "0193a1f0-0000-7000-8000-000000000020"
	supUserID    = "0193a1f0-0000-7000-8000-000000000100"
)

func seedEmployees(t *testing.T, s *TestDatabaseSetup) {
	t.Helper()
	ctx := context.Background()

	_, err := s.DB.Exec(ctx, `
		INSERT INTO employees (id, company_id, user_id, full_name, supervisor_id, weekly_contract_hours, employment_status)
		VALUES ($1, $2, $3, 'Sandra Supervisor', NULL, NULL, 'active')
	`, supervisorID, companyID, supUserID)
	require.NoError(t, err)

	_, err = s.DB.Exec(ctx, `
		INSERT INTO employees (id, company_id, full_name, supervisor_id, weekly_contract_hours, employment_status)
		VALUES ($1, $2, 'Eddie Employee', $3, 40, 'active')
	`, employeeID, companyID, supervisorID)
	require.NoError(t, err)
}

func insertPunch(t *testing.T, s *TestDatabaseSetup, kind punch.Kind, at time.Time, active bool) {
	t.Helper()
	_, err := s.DB.Exec(context.Background(), `
		INSERT INTO attendance_punches (id, employee_id, kind, punched_at, is_active)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), employeeID, string(kind), at, active)
	require.NoError(t, err)
}

func TestEmployeeRepository(t *testing.T) {
	s := NewTestDatabase(t)
	seedEmployees(t, s)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(s.DB)

	emp, err := repo.GetByID(ctx, employeeID)
	require.NoError(t, err)
	assert.Equal(t, "Eddie Employee", emp.FullName)
	require.NotNil(t, emp.SupervisorUserID)
	assert.Equal(t, supUserID, *emp.SupervisorUserID)
	require.NotNil(t, emp.WeeklyContractHours)
	assert.InDelta(t, 40.0, *emp.WeeklyContractHours, 1e-9)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	evaluable, err := repo.ListEvaluable(ctx)
	require.NoError(t, err)
	require.Len(t, evaluable, 1)
	assert.Equal(t, employeeID, evaluable[0].ID)

	hours, err := postgresql.NewContractRepository(s.DB).FetchWeeklyContractHours(ctx, supervisorID)
	require.NoError(t, err)
	assert.Nil(t, hours)
}

func TestPunchRepository_OrderAndKindFilter(t *testing.T) {
	s := NewTestDatabase(t)
	seedEmployees(t, s)
	ctx := context.Background()

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	insertPunch(t, s, punch.KindClockOut, day.Add(17*time.Hour), true)
	insertPunch(t, s, punch.KindClockIn, day.Add(9*time.Hour), true)
	insertPunch(t, s, punch.KindClockIn, day.Add(9*time.Hour), false)
	insertPunch(t, s, punch.KindClockIn, day.Add(48*time.Hour), true)

	repo := postgresql.NewPunchRepository(s.DB)

	events, err := repo.FetchPunches(ctx, employeeID, nil, day, calendar.EndOfDay(day))
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, punch.KindClockIn, events[0].Kind)
	assert.True(t, events[0].Active)
	assert.False(t, events[1].Active, "same timestamp keeps insertion order")
	assert.Equal(t, punch.KindClockOut, events[2].Kind)

	in := punch.KindClockIn
	events, err = repo.FetchPunches(ctx, employeeID, &in, day, day.Add(72*time.Hour))
	require.NoError(t, err)
	assert.Len(t, events, 3)
	for _, e := range events {
		assert.Equal(t, punch.KindClockIn, e.Kind)
	}
}

func TestScheduleAndVacationRepositories(t *testing.T) {
	s := NewTestDatabase(t)
	seedEmployees(t, s)
	ctx := context.Background()

	_, err := s.DB.Exec(ctx, `
		INSERT INTO employee_schedules (employee_id, date, morning_start, morning_end, afternoon_start, afternoon_end, afternoon_enabled)
		VALUES ($1, '2024-01-01', '09:00', '13:00', '14:00', '18:00', true),
		       ($1, '2024-01-06', NULL, NULL, NULL, NULL, false)
	`, employeeID)
	require.NoError(t, err)

	rows, err := postgresql.NewScheduleRepository(s.DB).FetchScheduleRows(ctx, employeeID,
		calendar.MustParseDate("2024-01-01"), calendar.MustParseDate("2024-01-07"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.True(t, rows[0].HasMorning())
	day := rows[0].Day()
	assert.Equal(t, calendar.MustParseClock("09:00"), day.Start)
	assert.Equal(t, calendar.MustParseClock("18:00"), day.End)
	assert.False(t, rows[1].HasMorning())

	_, err = s.DB.Exec(ctx, `
		INSERT INTO leave_requests (id, employee_id, leave_type, start_date, end_date, status)
		VALUES ($1, $3, 'vacation', '2024-01-03', '2024-01-05', 'approved'),
		       ($2, $3, 'vacation', '2024-01-04', '2024-01-04', 'rejected')
	`, uuid.NewString(), uuid.NewString(), employeeID)
	require.NoError(t, err)

	periods, err := postgresql.NewVacationRepository(s.DB).FetchVacations(ctx, employeeID,
		calendar.MustParseDate("2024-01-05"), calendar.MustParseDate("2024-01-10"))
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, "2024-01-03", periods[0].StartDate.String())
	assert.Equal(t, "2024-01-05", periods[0].EndDate.String())
}

func TestAlarmRepository_UpsertIsIdempotent(t *testing.T) {
	s := NewTestDatabase(t)
	seedEmployees(t, s)
	ctx := context.Background()
	repo := postgresql.NewAlarmRepository(s.DB)

	candidates := []alarm.Candidate{
		{Kind: alarm.KindLateClockIn, SubjectID: employeeID, SupervisorID: supervisorID, Date: calendar.MustParseDate("2024-01-01"), Description: "late", HoursInvolved: 0.25},
		{Kind: alarm.KindOvertime, SubjectID: employeeID, SupervisorID: supervisorID, Date: calendar.MustParseDate("2024-01-01"), Description: "overtime", HoursInvolved: 1.5},
	}

	inserted, err := repo.UpsertCandidates(ctx, companyID, candidates)
	require.NoError(t, err)
	require.Len(t, inserted, 2)

	again, err := repo.UpsertCandidates(ctx, companyID, candidates)
	require.NoError(t, err)
	assert.Empty(t, again)

	require.NoError(t, repo.MarkNotified(ctx, []string{inserted[0].ID}))

	kind := string(alarm.KindOvertime)
	list, total, err := repo.List(ctx, alarm.AlarmFilter{
		CompanyID:    companyID,
		SupervisorID: supervisorID,
		Type:         &kind,
		Page:         1,
		Limit:        20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.InDelta(t, 1.5, list[0].HoursInvolved, 1e-9)
	require.NotNil(t, list[0].EmployeeName)
	assert.Equal(t, "Eddie Employee", *list[0].EmployeeName)

	all, total, err := repo.List(ctx, alarm.AlarmFilter{CompanyID: companyID, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	notified := 0
	for _, a := range all {
		if a.Notified {
			notified++
		}
	}
	assert.Equal(t, 1, notified)
}

func TestWithTransaction_RollsBack(t *testing.T) {
	s := NewTestDatabase(t)
	seedEmployees(t, s)
	ctx := context.Background()
	repo := postgresql.NewAlarmRepository(s.DB)
	boom := errors.New("boom")

	err := postgresql.WithTransaction(ctx, s.DB, func(ctx context.Context) error {
		_, err := repo.UpsertCandidates(ctx, companyID, []alarm.Candidate{{
			Kind: alarm.KindMissedClockIn, SubjectID: employeeID, SupervisorID: supervisorID,
			Date: calendar.MustParseDate("2024-01-02"), Description: "missed",
		}})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, total, err := repo.List(ctx, alarm.AlarmFilter{CompanyID: companyID, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestNotificationRepository(t *testing.T) {
	s := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewNotificationRepository(s.DB)

	enabled, err := repo.IsNotificationEnabled(ctx, supUserID, notification.TypeComplianceAlarm)
	require.NoError(t, err)
	assert.True(t, enabled, "missing preference defaults to enabled")

	_, err = s.DB.Exec(ctx, `
		INSERT INTO notification_preferences (user_id, notification_type, push_enabled)
		VALUES ($1, $2, false)
	`, supUserID, string(notification.TypeComplianceAlarm))
	require.NoError(t, err)

	enabled, err = repo.IsNotificationEnabled(ctx, supUserID, notification.TypeComplianceAlarm)
	require.NoError(t, err)
	assert.False(t, enabled)

	n := &notification.Notification{
		CompanyID:   companyID,
		RecipientID: supUserID,
		Type:        notification.TypeComplianceAlarm,
		Title:       "Compliance alarm",
		Message:     "late",
		Data:        map[string]interface{}{"alarm_id": "x"},
		CreatedAt:   time.Now(),
	}
	require.NoError(t, repo.Create(ctx, n))
	assert.NotEmpty(t, n.ID)
}

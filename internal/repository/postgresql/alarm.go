package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/alarm"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// upsertChunk keeps each INSERT well below the 65535 bind parameter limit.
const upsertChunk = 500

type alarmRepositoryImpl struct {
	db *database.DB
}

func NewAlarmRepository(db *database.DB) alarm.Repository {
	return &alarmRepositoryImpl{db: db}
}

// UpsertCandidates implements alarm.Repository.
func (r *alarmRepositoryImpl) UpsertCandidates(ctx context.Context, companyID string, candidates []alarm.Candidate) ([]alarm.Alarm, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var inserted []alarm.Alarm
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		for from := 0; from < len(candidates); from += upsertChunk {
			to := min(from+upsertChunk, len(candidates))
			chunk, err := r.insertChunk(ctx, companyID, candidates[from:to])
			if err != nil {
				return err
			}
			inserted = append(inserted, chunk...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return inserted, nil
}

func (r *alarmRepositoryImpl) insertChunk(ctx context.Context, companyID string, candidates []alarm.Candidate) ([]alarm.Alarm, error) {
	q := GetQuerier(ctx, r.db)

	const cols = 9
	now := time.Now()
	valueStrings := make([]string, 0, len(candidates))
	valueArgs := make([]interface{}, 0, len(candidates)*cols)

	for i, c := range candidates {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate alarm id: %w", err)
		}

		base := i * cols
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, false, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
		))
		valueArgs = append(valueArgs,
			id.String(),
			companyID,
			c.SubjectID,
			c.SupervisorID,
			string(c.Kind),
			c.Date.In(time.UTC),
			c.Description,
			c.HoursInvolved,
			now,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO compliance_alarms (id, company_id, employee_id, supervisor_id, type, date, description, hours_involved, notified, created_at)
		VALUES %s
		ON CONFLICT (employee_id, type, date) DO NOTHING
		RETURNING id, company_id, employee_id, supervisor_id, type, date, description, hours_involved, notified, created_at
	`, strings.Join(valueStrings, ", "))

	rows, err := q.Query(ctx, query, valueArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert alarms: %w", err)
	}
	defer rows.Close()

	var inserted []alarm.Alarm
	for rows.Next() {
		a, err := scanAlarm(rows, false)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inserted alarms: %w", err)
	}

	return inserted, nil
}

func scanAlarm(row pgx.Row, withName bool) (alarm.Alarm, error) {
	var (
		a    alarm.Alarm
		kind string
		date time.Time
	)
	dest := []interface{}{
		&a.ID,
		&a.CompanyID,
		&a.SubjectID,
		&a.SupervisorID,
		&kind,
		&date,
		&a.Description,
		&a.HoursInvolved,
		&a.Notified,
		&a.CreatedAt,
	}
	if withName {
		dest = append(dest, &a.EmployeeName)
	}

	if err := row.Scan(dest...); err != nil {
		return alarm.Alarm{}, fmt.Errorf("failed to scan alarm: %w", err)
	}
	a.Kind = alarm.Kind(kind)
	a.Date = calendar.DateOf(date)
	return a, nil
}

// List implements alarm.Repository.
func (r *alarmRepositoryImpl) List(ctx context.Context, filter alarm.AlarmFilter) ([]alarm.Alarm, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "a.company_id = $1"
	args := []interface{}{filter.CompanyID}
	argIdx := 2

	if filter.SupervisorID != "" {
		baseWhere += fmt.Sprintf(" AND a.supervisor_id = $%d", argIdx)
		args = append(args, filter.SupervisorID)
		argIdx++
	}
	if filter.EmployeeID != nil {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Type != nil {
		baseWhere += fmt.Sprintf(" AND a.type = $%d", argIdx)
		args = append(args, *filter.Type)
		argIdx++
	}
	if filter.StartDate != nil {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d::date", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM compliance_alarms a WHERE %s", baseWhere)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count alarms: %w", err)
	}

	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT a.id, a.company_id, a.employee_id, a.supervisor_id, a.type, a.date, a.description,
			a.hours_involved, a.notified, a.created_at, e.full_name
		FROM compliance_alarms a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date %s, a.created_at %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, sortOrder, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query alarms: %w", err)
	}
	defer rows.Close()

	var alarms []alarm.Alarm
	for rows.Next() {
		a, err := scanAlarm(rows, true)
		if err != nil {
			return nil, 0, err
		}
		alarms = append(alarms, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate alarms: %w", err)
	}

	return alarms, total, nil
}

// MarkNotified implements alarm.Repository.
func (r *alarmRepositoryImpl) MarkNotified(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `UPDATE compliance_alarms SET notified = true WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return fmt.Errorf("failed to mark alarms notified: %w", err)
	}
	return nil
}

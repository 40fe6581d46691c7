package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgtype"
)

type scheduleRepositoryImpl struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.Repository {
	return &scheduleRepositoryImpl{db: db}
}

// FetchScheduleRows implements schedule.Repository.
func (r *scheduleRepositoryImpl) FetchScheduleRows(ctx context.Context, subjectID string, start, end calendar.Date) ([]schedule.Row, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT date, morning_start, morning_end, afternoon_start, afternoon_end, afternoon_enabled
		FROM employee_schedules
		WHERE employee_id = $1
			AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, subjectID, start.In(time.UTC), end.In(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule rows for employee %s: %w", subjectID, err)
	}
	defer rows.Close()

	var result []schedule.Row
	for rows.Next() {
		var (
			date                         time.Time
			morningStart, morningEnd     pgtype.Time
			afternoonStart, afternoonEnd pgtype.Time
			row                          schedule.Row
		)
		if err := rows.Scan(&date, &morningStart, &morningEnd, &afternoonStart, &afternoonEnd, &row.AfternoonEnabled); err != nil {
			return nil, fmt.Errorf("failed to scan schedule row: %w", err)
		}

		row.Date = calendar.DateOf(date)
		row.MorningStart = clockFromPg(morningStart)
		row.MorningEnd = clockFromPg(morningEnd)
		row.AfternoonStart = clockFromPg(afternoonStart)
		row.AfternoonEnd = clockFromPg(afternoonEnd)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedule rows: %w", err)
	}

	return result, nil
}

func clockFromPg(t pgtype.Time) *calendar.Clock {
	if !t.Valid {
		return nil
	}
	c := calendar.Clock(t.Microseconds / 1000)
	return &c
}

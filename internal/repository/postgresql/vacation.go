package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/database"
)

type vacationRepositoryImpl struct {
	db *database.DB
}

func NewVacationRepository(db *database.DB) leave.VacationRepository {
	return &vacationRepositoryImpl{db: db}
}

// FetchVacations returns approved vacation leave overlapping [start, end].
func (r *vacationRepositoryImpl) FetchVacations(ctx context.Context, subjectID string, start, end calendar.Date) ([]leave.VacationPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.employee_id, lr.start_date, lr.end_date
		FROM leave_requests lr
		WHERE lr.employee_id = $1
			AND lr.leave_type = 'vacation'
			AND lr.status = 'approved'
			AND lr.start_date <= $3
			AND lr.end_date >= $2
		ORDER BY lr.start_date ASC
	`

	rows, err := q.Query(ctx, query, subjectID, start.In(time.UTC), end.In(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to query vacations for employee %s: %w", subjectID, err)
	}
	defer rows.Close()

	var periods []leave.VacationPeriod
	for rows.Next() {
		var (
			p        leave.VacationPeriod
			from, to time.Time
		)
		if err := rows.Scan(&p.SubjectID, &from, &to); err != nil {
			return nil, fmt.Errorf("failed to scan vacation: %w", err)
		}
		p.StartDate = calendar.DateOf(from)
		p.EndDate = calendar.DateOf(to)
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vacations: %w", err)
	}

	return periods, nil
}

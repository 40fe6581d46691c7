package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/database"
)

type punchRepositoryImpl struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) punch.Repository {
	return &punchRepositoryImpl{db: db}
}

// FetchPunches returns active and inactive punches of the employee inside
// [from, to], ordered by timestamp and then by insertion order. Rows with a
// kind the engine does not know are skipped.
func (r *punchRepositoryImpl) FetchPunches(ctx context.Context, subjectID string, kind *punch.Kind, from, to time.Time) ([]punch.Event, error) {
	q := GetQuerier(ctx, r.db)

	var kindFilter *string
	if kind != nil {
		k := string(*kind)
		kindFilter = &k
	}

	query := `
		SELECT id, employee_id, kind, punched_at, is_active
		FROM attendance_punches
		WHERE employee_id = $1
			AND punched_at BETWEEN $2 AND $3
			AND ($4::text IS NULL OR kind = $4::text)
		ORDER BY punched_at ASC, seq ASC
	`

	rows, err := q.Query(ctx, query, subjectID, from, to, kindFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to query punches for employee %s: %w", subjectID, err)
	}
	defer rows.Close()

	var events []punch.Event
	for rows.Next() {
		var (
			e    punch.Event
			kind string
		)
		if err := rows.Scan(&e.ID, &e.SubjectID, &kind, &e.Timestamp, &e.Active); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		e.Kind = punch.Kind(kind)
		if !e.Kind.Valid() {
			continue
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate punches: %w", err)
	}

	return events, nil
}

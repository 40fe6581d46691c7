package alarm

import "context"

// Repository is the alarm sink. It de-duplicates on (employee, kind, date).
type Repository interface {
	// UpsertCandidates stores the candidates and returns only the alarms that
	// were newly inserted; candidates whose key already exists are skipped.
	UpsertCandidates(ctx context.Context, companyID string, candidates []Candidate) ([]Alarm, error)

	// List retrieves stored alarms with filters and pagination.
	List(ctx context.Context, filter AlarmFilter) ([]Alarm, int64, error)

	// MarkNotified flags alarms whose notification has been stored.
	MarkNotified(ctx context.Context, ids []string) error
}

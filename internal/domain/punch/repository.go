package punch

import (
	"context"
	"time"
)

// Repository reads punches for the compliance engine.
type Repository interface {
	// FetchPunches returns the subject's punches with Timestamp in [from, to],
	// ordered by timestamp and then by insertion order. A nil kind returns all kinds.
	// Inactive punches are returned with Active=false so the engine can filter them.
	FetchPunches(ctx context.Context, subjectID string, kind *Kind, from, to time.Time) ([]Event, error)
}

package punch

import "time"

// Kind is the type of a single attendance punch.
type Kind string

const (
	KindClockIn    Kind = "clock_in"
	KindClockOut   Kind = "clock_out"
	KindBreakStart Kind = "break_start"
	KindBreakEnd   Kind = "break_end"
)

// Valid reports whether k is one of the four known punch kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindClockIn, KindClockOut, KindBreakStart, KindBreakEnd:
		return true
	}
	return false
}

// Event is an immutable, timestamped punch. Inactive events were edited away
// or soft-deleted and must not take part in any computation.
type Event struct {
	ID        string
	SubjectID string
	Kind      Kind
	Timestamp time.Time
	Active    bool
}

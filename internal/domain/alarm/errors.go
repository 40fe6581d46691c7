package alarm

import "errors"

// Alarm domain errors
var (
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

package notification

import "errors"

// Notification domain errors
var (
	ErrInvalidNotificationType = errors.New("invalid notification type")
	ErrMissingRecipient        = errors.New("notification recipient is required")
)

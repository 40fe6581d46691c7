package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeComplianceAlarm NotificationType = "compliance_alarm"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeComplianceAlarm,
	}
}

// Notification represents a notification entity
type Notification struct {
	ID          string
	CompanyID   string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	CreatedAt   time.Time
}

package notification

import (
	"context"
)

// Repository defines the notification repository interface
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error

	// IsNotificationEnabled reports the recipient's push preference; recipients
	// without a stored preference receive everything.
	IsNotificationEnabled(ctx context.Context, userID string, notifType NotificationType) (bool, error)
}

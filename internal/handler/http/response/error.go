package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/alarm"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/user"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")

	// User domain errors
	case errors.Is(err, user.ErrOwnerAccessRequired):
		Forbidden(w, "Owner access required")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrCompanyIDRequired):
		Forbidden(w, "Company is required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrSupervisorNotFound):
		BadRequest(w, "Employee has no supervisor assigned", nil)

	// Alarm domain errors
	case errors.Is(err, alarm.ErrInvalidDateRange):
		BadRequest(w, "Invalid date range", nil)

	// Notification domain errors
	case errors.Is(err, notification.ErrMissingRecipient):
		BadRequest(w, "Notification recipient is missing", nil)
	case errors.Is(err, notification.ErrInvalidNotificationType):
		BadRequest(w, "Invalid notification type", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

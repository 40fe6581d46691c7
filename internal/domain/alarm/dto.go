package alarm

import (
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/validator"
)

// MaxEvaluationDays bounds a single on-demand evaluation.
const MaxEvaluationDays = 366

// ========================================
// EVALUATION DTOs
// ========================================

type EvaluateRequest struct {
	CompanyID    string  `json:"-"`
	EmployeeID   string  `json:"employee_id"`
	SupervisorID *string `json:"supervisor_id,omitempty"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	DryRun       bool    `json:"dry_run"`

	start calendar.Date
	end   calendar.Date
}

func (r *EvaluateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if r.SupervisorID != nil && !validator.IsValidUUID(*r.SupervisorID) {
		errs = append(errs, validator.ValidationError{
			Field:   "supervisor_id",
			Message: "supervisor_id must be a valid UUID",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK {
		switch {
		case end.Before(start):
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		case start.DaysUntil(end)+1 > MaxEvaluationDays:
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "evaluation range must not exceed " + validator.Itoa(MaxEvaluationDays) + " days",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	r.start, r.end = start, end
	return nil
}

// Range returns the parsed dates. Only meaningful after a successful Validate.
func (r *EvaluateRequest) Range() (calendar.Date, calendar.Date) {
	return r.start, r.end
}

type EvaluateResponse struct {
	EmployeeID   string          `json:"employee_id"`
	SupervisorID string          `json:"supervisor_id"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	DryRun       bool            `json:"dry_run"`
	Candidates   []AlarmResponse `json:"candidates"`
	Inserted     int             `json:"inserted"`
	Duplicates   int             `json:"duplicates"`
}

// BatchSummary reports a scheduled evaluation over many employees.
type BatchSummary struct {
	Employees  int `json:"employees"`
	Failed     int `json:"failed"`
	Candidates int `json:"candidates"`
	Inserted   int `json:"inserted"`
}

// ========================================
// ALARM LIST DTOs
// ========================================

type AlarmFilter struct {
	CompanyID    string  `json:"-"`
	SupervisorID string  `json:"-"`
	EmployeeID   *string `json:"employee_id"`
	Type         *string `json:"type"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
	SortOrder    string  `json:"sort_order"`
}

func (f *AlarmFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if f.Type != nil && !validator.IsInSlice(*f.Type, KindValues()) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type is not a known alarm type",
		})
	}

	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.SortOrder != "" && f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_order",
			Message: "sort_order must be asc or desc",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AlarmResponse struct {
	ID            string  `json:"id,omitempty"`
	Type          Kind    `json:"type"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  *string `json:"employee_name,omitempty"`
	SupervisorID  string  `json:"supervisor_id"`
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	HoursInvolved float64 `json:"hours_involved"`
	Notified      bool    `json:"notified"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

type ListAlarmResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Showing    string          `json:"showing"`
	Alarms     []AlarmResponse `json:"alarms"`
}

// CandidateToResponse maps a fresh candidate.
func CandidateToResponse(c Candidate) AlarmResponse {
	return AlarmResponse{
		Type:          c.Kind,
		EmployeeID:    c.SubjectID,
		SupervisorID:  c.SupervisorID,
		Date:          c.Date.String(),
		Description:   c.Description,
		HoursInvolved: c.HoursInvolved,
	}
}

// AlarmToResponse maps a stored alarm.
func AlarmToResponse(a Alarm) AlarmResponse {
	resp := CandidateToResponse(a.Candidate)
	resp.ID = a.ID
	resp.EmployeeName = a.EmployeeName
	resp.Notified = a.Notified
	resp.CreatedAt = a.CreatedAt.Format("2006-01-02 15:04:05")
	return resp
}

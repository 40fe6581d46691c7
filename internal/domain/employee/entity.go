package employee

import "time"

type Employee struct {
	ID                  string
	CompanyID           string
	UserID              *string
	FullName            string
	SupervisorID        *string
	SupervisorUserID    *string
	WeeklyContractHours *float64
	EmploymentStatus    string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasSupervisor reports whether alarms for the employee have someone to go to.
func (e Employee) HasSupervisor() bool {
	return e.SupervisorID != nil && *e.SupervisorID != ""
}

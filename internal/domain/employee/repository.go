package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListEvaluable returns active employees that have a supervisor assigned.
	ListEvaluable(ctx context.Context) ([]Employee, error)
}

// ContractRepository exposes contracted working hours.
type ContractRepository interface {
	// FetchWeeklyContractHours returns nil when the employee has no contract hours set.
	FetchWeeklyContractHours(ctx context.Context, subjectID string) (*float64, error)
}

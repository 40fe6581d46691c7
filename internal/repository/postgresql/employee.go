package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func NewContractRepository(db *database.DB) employee.ContractRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	e.id, e.company_id, e.user_id, e.full_name, e.supervisor_id, s.user_id,
	e.weekly_contract_hours, e.employment_status, e.created_at, e.updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID,
		&emp.CompanyID,
		&emp.UserID,
		&emp.FullName,
		&emp.SupervisorID,
		&emp.SupervisorUserID,
		&emp.WeeklyContractHours,
		&emp.EmploymentStatus,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN employees s ON s.id = e.supervisor_id AND s.deleted_at IS NULL
		WHERE e.id = $1 AND e.deleted_at IS NULL
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// ListEvaluable implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListEvaluable(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		JOIN employees s ON s.id = e.supervisor_id AND s.deleted_at IS NULL
		WHERE e.deleted_at IS NULL
			AND e.employment_status = 'active'
		ORDER BY e.company_id, e.id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluable employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// FetchWeeklyContractHours implements employee.ContractRepository.
func (r *employeeRepositoryImpl) FetchWeeklyContractHours(ctx context.Context, subjectID string) (*float64, error) {
	q := GetQuerier(ctx, r.db)

	var hours *float64
	err := q.QueryRow(ctx, `
		SELECT weekly_contract_hours
		FROM employees
		WHERE id = $1 AND deleted_at IS NULL
	`, subjectID).Scan(&hours)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get contract hours: %w", err)
	}
	return hours, nil
}

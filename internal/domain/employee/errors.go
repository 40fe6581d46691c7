package employee

import "errors"

// Employee domain errors
var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrSupervisorNotFound = errors.New("employee has no supervisor assigned")
)

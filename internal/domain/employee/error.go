package employee

import "errors"

var (
	ErrNotFound      = errors.New("employee not found")
	ErrEmpIDRequired = errors.New("emp_id is required")
	ErrNameRequired  = errors.New("name is required")
)

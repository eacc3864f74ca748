package employee

import (
	"time"

	"tabelkeeper/internal/domain/employee"
)

type upsertInput struct {
	Body request
}

type upsertOutput struct {
	Body response
}

type listOutput struct {
	Body listResponse
}

type request struct {
	EmpID       string    `json:"emp_id" doc:"Табельный номер сотрудника" minLength:"1"`
	Name        string    `json:"name" doc:"Имя сотрудника" minLength:"1"`
	Department  string    `json:"department,omitempty" doc:"Отдел"`
	Designation string    `json:"designation,omitempty" doc:"Должность"`
	CreatedAt   time.Time `json:"created_at,omitempty" doc:"Момент создания на устройстве"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" doc:"Момент последнего изменения на устройстве"`
}

type response struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type listResponse struct {
	Employees []*employee.Employee `json:"employees"`
}

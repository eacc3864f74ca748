package employee

import "time"

// Employee — сотрудник в облачном хранилище.
// Натуральный ключ — табельный номер EmpID, он же используется
// для сопоставления записей между устройствами.
type Employee struct {
	ID          string    `json:"id,omitempty" doc:"Идентификатор, присвоенный сервером"`
	EmpID       string    `json:"emp_id" doc:"Табельный номер сотрудника"`
	Name        string    `json:"name" doc:"Имя сотрудника"`
	Department  string    `json:"department" doc:"Отдел"`
	Designation string    `json:"designation,omitempty" doc:"Должность"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

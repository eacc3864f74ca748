package postgres

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"tabelkeeper/internal/domain/employee"
)

// EmployeeRepository реализация репозитория сотрудников для PostgreSQL
type EmployeeRepository struct {
	storage *Storage
	log     *slog.Logger
}

// NewEmployeeRepository создает новый репозиторий сотрудников
func NewEmployeeRepository(storage *Storage, log *slog.Logger) *EmployeeRepository {
	return &EmployeeRepository{
		storage: storage,
		log:     log,
	}
}

// Upsert вставляет или обновляет сотрудника по натуральному ключу emp_id
func (r *EmployeeRepository) Upsert(ctx context.Context, emp *employee.Employee) (*employee.Employee, error) {
	query := `
		INSERT INTO employees (emp_id, name, department, designation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (emp_id) DO UPDATE SET
			name = EXCLUDED.name,
			department = EXCLUDED.department,
			designation = EXCLUDED.designation,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	stored := *emp
	err := r.storage.Pool().QueryRow(ctx, query,
		emp.EmpID,
		emp.Name,
		emp.Department,
		emp.Designation,
		emp.CreatedAt,
		emp.UpdatedAt,
	).Scan(&stored.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert employee: %w", err)
	}

	return &stored, nil
}

// List возвращает всех сотрудников
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	query := `
		SELECT id, emp_id, name, department, designation, created_at, updated_at
		FROM employees
		ORDER BY emp_id
	`

	rows, err := r.storage.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []*employee.Employee
	for rows.Next() {
		var emp employee.Employee

		err := rows.Scan(
			&emp.ID,
			&emp.EmpID,
			&emp.Name,
			&emp.Department,
			&emp.Designation,
			&emp.CreatedAt,
			&emp.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}

		employees = append(employees, &emp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

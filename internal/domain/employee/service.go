package employee

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

// Servicer интерфейс сервиса сотрудников
type Servicer interface {
	// Upsert сохраняет сотрудника по натуральному ключу emp_id.
	Upsert(ctx context.Context, emp *Employee) (*Employee, error)

	// List возвращает всех сотрудников.
	List(ctx context.Context) ([]*Employee, error)
}

// Service реализация сервиса сотрудников
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService создает новый сервис сотрудников
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Upsert сохраняет сотрудника: запись с тем же emp_id перезаписывается
// атрибутами из запроса ("последний отправивший побеждает").
func (s *Service) Upsert(ctx context.Context, emp *Employee) (*Employee, error) {
	if err := validate(emp); err != nil {
		return nil, err
	}

	now := time.Now()
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = now
	}
	if emp.UpdatedAt.IsZero() {
		emp.UpdatedAt = now
	}

	stored, err := s.repo.Upsert(ctx, emp)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert employee: %w", err)
	}

	s.log.Debug("employee upserted", "emp_id", stored.EmpID, "id", stored.ID)
	return stored, nil
}

// List возвращает всех сотрудников.
func (s *Service) List(ctx context.Context) ([]*Employee, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return employees, nil
}

func validate(emp *Employee) error {
	if strings.TrimSpace(emp.EmpID) == "" {
		return ErrEmpIDRequired
	}
	if strings.TrimSpace(emp.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

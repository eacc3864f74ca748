package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

// Servicer интерфейс сервиса посещений
type Servicer interface {
	// Upsert сохраняет запись по составному ключу (emp_id, attendance_date).
	Upsert(ctx context.Context, entry *Entry) (*Entry, error)

	// List возвращает все записи посещений.
	List(ctx context.Context) ([]*Entry, error)
}

// Service реализация сервиса посещений
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService создает новый сервис посещений
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Upsert сохраняет запись: строка с тем же (emp_id, attendance_date)
// перезаписывается атрибутами из запроса. Момент приема фиксируется
// в synced_at.
func (s *Service) Upsert(ctx context.Context, entry *Entry) (*Entry, error) {
	if err := validate(entry); err != nil {
		return nil, err
	}

	now := time.Now()
	entry.SyncedAt = &now
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = now
	}

	stored, err := s.repo.Upsert(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert attendance entry: %w", err)
	}

	s.log.Debug("attendance entry upserted",
		"emp_id", stored.EmpID,
		"date", stored.AttendanceDate,
		"id", stored.ID,
	)
	return stored, nil
}

// List возвращает все записи посещений.
func (s *Service) List(ctx context.Context) ([]*Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance entries: %w", err)
	}

	return entries, nil
}

func validate(entry *Entry) error {
	if strings.TrimSpace(entry.EmpID) == "" {
		return ErrEmpIDRequired
	}
	if _, err := time.Parse(DateLayout, entry.AttendanceDate); err != nil {
		return ErrBadDate
	}
	if entry.LoginTime.IsZero() {
		return ErrLoginRequired
	}
	return nil
}

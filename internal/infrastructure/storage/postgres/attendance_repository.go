package postgres

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"tabelkeeper/internal/domain/attendance"
)

// AttendanceRepository реализация репозитория посещаемости для PostgreSQL
type AttendanceRepository struct {
	storage *Storage
	log     *slog.Logger
}

// NewAttendanceRepository создает новый репозиторий посещаемости
func NewAttendanceRepository(storage *Storage, log *slog.Logger) *AttendanceRepository {
	return &AttendanceRepository{
		storage: storage,
		log:     log,
	}
}

// Upsert вставляет или обновляет запись по натуральному ключу (emp_id, attendance_date)
func (r *AttendanceRepository) Upsert(ctx context.Context, entry *attendance.Entry) (*attendance.Entry, error) {
	query := `
		INSERT INTO attendance (emp_id, attendance_date, login_time, logout_time, working_minutes, device_id, synced_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (emp_id, attendance_date) DO UPDATE SET
			login_time = EXCLUDED.login_time,
			logout_time = EXCLUDED.logout_time,
			working_minutes = EXCLUDED.working_minutes,
			device_id = EXCLUDED.device_id,
			synced_at = EXCLUDED.synced_at,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	stored := *entry
	err := r.storage.Pool().QueryRow(ctx, query,
		entry.EmpID,
		entry.AttendanceDate,
		entry.LoginTime,
		entry.LogoutTime,
		entry.WorkingMinutes,
		entry.DeviceID,
		entry.SyncedAt,
		entry.UpdatedAt,
	).Scan(&stored.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert attendance entry: %w", err)
	}

	return &stored, nil
}

// List возвращает все записи посещаемости
func (r *AttendanceRepository) List(ctx context.Context) ([]*attendance.Entry, error) {
	query := `
		SELECT id, emp_id, attendance_date, login_time, logout_time, working_minutes, device_id, synced_at, updated_at
		FROM attendance
		ORDER BY attendance_date, emp_id
	`

	rows, err := r.storage.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var entries []*attendance.Entry
	for rows.Next() {
		var (
			entry attendance.Entry
			date  time.Time
		)

		err := rows.Scan(
			&entry.ID,
			&entry.EmpID,
			&date,
			&entry.LoginTime,
			&entry.LogoutTime,
			&entry.WorkingMinutes,
			&entry.DeviceID,
			&entry.SyncedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance entry: %w", err)
		}

		entry.AttendanceDate = date.Format(attendance.DateLayout)
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}

	return entries, nil
}

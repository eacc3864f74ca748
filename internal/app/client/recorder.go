package client

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"tabelkeeper/internal/domain/attendance"
)

// RecordAction - результат сканирования табельного номера
type RecordAction string

const (
	// ActionLogin - открыта новая смена
	ActionLogin RecordAction = "login"
	// ActionLogout - смена закрыта, посчитаны минуты
	ActionLogout RecordAction = "logout"
	// ActionClosed - смена за сегодня уже закрыта, запись не изменена
	ActionClosed RecordAction = "closed"
)

// RecordResult - итог обработки сканирования
type RecordResult struct {
	Action   RecordAction
	Employee *LocalEmployee
	Entry    *LocalEntry
}

// Recorder реализует терминальную логику прихода/ухода.
// Одно сканирование в день открывает смену, второе закрывает,
// последующие ничего не меняют.
type Recorder struct {
	storage  Storage
	deviceID string
	log      *slog.Logger
	now      func() time.Time
}

// NewRecorder создает новый регистратор посещений
func NewRecorder(storage Storage, deviceID string, log *slog.Logger) *Recorder {
	return &Recorder{
		storage:  storage,
		deviceID: deviceID,
		log:      log,
		now:      time.Now,
	}
}

// Record обрабатывает сканирование табельного номера.
// Для закрытой смены возвращает ErrShiftClosed вместе с нетронутой записью.
func (r *Recorder) Record(empID string) (*RecordResult, error) {
	empID = strings.TrimSpace(empID)
	if empID == "" {
		return nil, fmt.Errorf("пустой табельный номер")
	}

	emp, err := r.storage.GetEmployeeByEmpID(empID)
	if err != nil {
		return nil, err
	}

	now := r.now()
	today := now.Format(attendance.DateLayout)

	entry, err := r.storage.GetEntryByKey(empID, today)
	if errors.Is(err, ErrEntryNotFound) {
		// Первое сканирование за день - открываем смену
		entry = &LocalEntry{
			EmpID:          empID,
			AttendanceDate: today,
			LoginTime:      now,
			DeviceID:       r.deviceID,
			UpdatedAt:      now,
			Synced:         false,
		}

		id, err := r.storage.SaveEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("ошибка открытия смены: %w", err)
		}
		entry.ID = id

		r.log.Info("смена открыта", "emp_id", empID, "date", today)
		return &RecordResult{Action: ActionLogin, Employee: emp, Entry: entry}, nil
	}
	if err != nil {
		return nil, err
	}

	if entry.Closed() {
		// Смена уже закрыта, запись не трогаем
		r.log.Debug("повторное сканирование после закрытия смены", "emp_id", empID, "date", today)
		return &RecordResult{Action: ActionClosed, Employee: emp, Entry: entry}, ErrShiftClosed
	}

	// Второе сканирование - закрываем смену
	minutes := attendance.Minutes(entry.LoginTime, now)
	entry.LogoutTime = &now
	entry.WorkingMinutes = &minutes
	entry.UpdatedAt = now
	entry.Synced = false

	if err := r.storage.UpdateEntry(entry); err != nil {
		return nil, fmt.Errorf("ошибка закрытия смены: %w", err)
	}

	r.log.Info("смена закрыта", "emp_id", empID, "date", today, "minutes", minutes)
	return &RecordResult{Action: ActionLogout, Employee: emp, Entry: entry}, nil
}

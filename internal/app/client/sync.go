package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"tabelkeeper/internal/domain/attendance"
)

// SyncService управляет синхронизацией данных между киоском и сервером.
// Схема двухфазная: сначала все несинхронизированное уходит на сервер,
// затем с сервера дозагружается то, чего нет локально. Локальные записи
// при дозагрузке никогда не перезаписываются.
type SyncService struct {
	storage  Storage
	remote   Remote
	log      *slog.Logger
	deviceID string
	interval time.Duration

	mu        sync.RWMutex
	lastSync  time.Time
	isSyncing bool
}

// SyncError ошибка синхронизации одной записи
type SyncError struct {
	Key       string    `json:"key"`
	Operation string    `json:"operation"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// SyncResult результат одного прохода синхронизации
type SyncResult struct {
	PushedEmployees int           `json:"pushed_employees"`
	PushedEntries   int           `json:"pushed_entries"`
	PulledEmployees int           `json:"pulled_employees"`
	PulledEntries   int           `json:"pulled_entries"`
	Errors          []SyncError   `json:"errors"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	Duration        time.Duration `json:"duration"`
}

// Pushed возвращает суммарное число отправленных записей
func (r *SyncResult) Pushed() int {
	return r.PushedEmployees + r.PushedEntries
}

// Pulled возвращает суммарное число дозагруженных записей
func (r *SyncResult) Pulled() int {
	return r.PulledEmployees + r.PulledEntries
}

// NewSyncService создает новый сервис синхронизации
func NewSyncService(storage Storage, remote Remote, deviceID string, interval time.Duration, log *slog.Logger) *SyncService {
	return &SyncService{
		storage:  storage,
		remote:   remote,
		log:      log,
		deviceID: deviceID,
		interval: interval,
	}
}

// Sync запускает процесс синхронизации.
// Если синхронизация уже идет или сервер недоступен, проход тихо
// пропускается: несинхронизированные данные остаются на месте и уйдут
// при следующей попытке. Ошибка уровня фазы прерывает проход и
// возвращается вызывающему вместе с частичным результатом.
func (s *SyncService) Sync(ctx context.Context) (*SyncResult, error) {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		s.log.Debug("синхронизация уже выполняется, проход пропущен")
		return nil, nil
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	// Проверяем доступность сервера
	if err := s.remote.HealthCheck(ctx); err != nil {
		s.log.Debug("сервер недоступен, проход пропущен", "error", err)
		return nil, nil
	}

	result := &SyncResult{
		StartTime: time.Now(),
		Errors:    []SyncError{},
	}

	s.log.Info("начало синхронизации", "start_time", result.StartTime)

	// Ошибка уровня фазы (чтение списка, потеря сети) прерывает проход:
	// оставшиеся фазы не выполняются, lastSync не продвигается.
	// Ошибки по отдельным записям внутри фазы проход не прерывают.

	// 1. Отправляем несинхронизированных сотрудников
	if err := s.pushEmployees(ctx, result); err != nil {
		return result, s.abortCycle(result, err)
	}

	// 2. Отправляем несинхронизированные записи посещений
	if err := s.pushEntries(ctx, result); err != nil {
		return result, s.abortCycle(result, err)
	}

	// 3. Дозагружаем сотрудников с сервера
	if err := s.pullEmployees(ctx, result); err != nil {
		return result, s.abortCycle(result, err)
	}

	// 4. Дозагружаем записи посещений с сервера
	if err := s.pullEntries(ctx, result); err != nil {
		return result, s.abortCycle(result, err)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	s.mu.Lock()
	s.lastSync = result.EndTime
	s.mu.Unlock()

	// 5. Пишем итог прохода в журнал
	if err := s.storage.SaveSyncLog(s.buildLogEntry(result, nil)); err != nil {
		s.log.Warn("ошибка записи журнала синхронизации", "error", err)
	}

	if len(result.Errors) == 0 {
		s.log.Info("синхронизация завершена",
			"duration", result.Duration,
			"pushed", result.Pushed(),
			"pulled", result.Pulled(),
		)
	} else {
		s.log.Warn("синхронизация завершена с ошибками",
			"duration", result.Duration,
			"pushed", result.Pushed(),
			"pulled", result.Pulled(),
			"errors", len(result.Errors),
		)
	}

	return result, nil
}

// abortCycle фиксирует прерванный проход: пишет в журнал запись со статусом
// failed и возвращает ошибку вызывающему. lastSync остается прежним,
// несинхронизированные данные уйдут при следующем проходе.
func (s *SyncService) abortCycle(result *SyncResult, cause error) error {
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	if err := s.storage.SaveSyncLog(s.buildLogEntry(result, cause)); err != nil {
		s.log.Warn("ошибка записи журнала синхронизации", "error", err)
	}

	s.log.Error("синхронизация прервана", "error", cause)
	return cause
}

// pushEmployees отправляет несинхронизированных сотрудников на сервер.
// Ошибка по одному сотруднику не прерывает отправку остальных;
// ошибка чтения списка прерывает фазу.
func (s *SyncService) pushEmployees(ctx context.Context, result *SyncResult) error {
	employees, err := s.storage.UnsyncedEmployees()
	if err != nil {
		result.Errors = append(result.Errors, SyncError{
			Operation: "push_employees",
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return fmt.Errorf("ошибка чтения несинхронизированных сотрудников: %w", err)
	}

	for _, emp := range employees {
		req := EmployeeUpsertRequest{
			EmpID:       emp.EmpID,
			Name:        emp.Name,
			Department:  emp.Department,
			Designation: emp.Designation,
			CreatedAt:   emp.CreatedAt,
			UpdatedAt:   emp.UpdatedAt,
		}

		cloudID, err := s.remote.UpsertEmployee(ctx, req)
		if err != nil {
			result.Errors = append(result.Errors, SyncError{
				Key:       emp.EmpID,
				Operation: "push_employee",
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			s.log.Error("ошибка отправки сотрудника", "emp_id", emp.EmpID, "error", err)
			continue
		}

		if err := s.storage.MarkEmployeeSynced(emp.ID, cloudID, time.Now()); err != nil {
			s.log.Warn("ошибка отметки синхронизации сотрудника", "emp_id", emp.EmpID, "error", err)
			continue
		}

		result.PushedEmployees++
	}

	s.log.Debug("отправлены сотрудники", "count", result.PushedEmployees)
	return nil
}

// pushEntries отправляет несинхронизированные записи посещений на сервер
func (s *SyncService) pushEntries(ctx context.Context, result *SyncResult) error {
	entries, err := s.storage.UnsyncedEntries()
	if err != nil {
		result.Errors = append(result.Errors, SyncError{
			Operation: "push_entries",
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return fmt.Errorf("ошибка чтения несинхронизированных записей: %w", err)
	}

	for _, entry := range entries {
		req := AttendanceUpsertRequest{
			EmpID:          entry.EmpID,
			AttendanceDate: entry.AttendanceDate,
			LoginTime:      entry.LoginTime,
			LogoutTime:     entry.LogoutTime,
			WorkingMinutes: entry.WorkingMinutes,
			DeviceID:       entry.DeviceID,
			UpdatedAt:      entry.UpdatedAt,
		}
		if req.DeviceID == "" {
			req.DeviceID = s.deviceID
		}

		cloudID, err := s.remote.UpsertAttendance(ctx, req)
		if err != nil {
			result.Errors = append(result.Errors, SyncError{
				Key:       entry.EmpID + "|" + entry.AttendanceDate,
				Operation: "push_entry",
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			s.log.Error("ошибка отправки записи посещения",
				"emp_id", entry.EmpID,
				"date", entry.AttendanceDate,
				"error", err,
			)
			continue
		}

		if err := s.storage.MarkEntrySynced(entry.ID, cloudID, time.Now()); err != nil {
			s.log.Warn("ошибка отметки синхронизации записи", "emp_id", entry.EmpID, "error", err)
			continue
		}

		result.PushedEntries++
	}

	s.log.Debug("отправлены записи посещений", "count", result.PushedEntries)
	return nil
}

// pullEmployees дозагружает сотрудников, которых нет локально.
// Существующие локальные записи не перезаписываются.
func (s *SyncService) pullEmployees(ctx context.Context, result *SyncResult) error {
	remote, err := s.remote.ListEmployees(ctx)
	if err != nil {
		result.Errors = append(result.Errors, SyncError{
			Operation: "pull_employees",
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return fmt.Errorf("ошибка получения сотрудников с сервера: %w", err)
	}

	for _, emp := range remote {
		if _, err := s.storage.GetEmployeeByEmpID(emp.EmpID); err == nil {
			// Сотрудник уже есть локально
			continue
		}

		local := &LocalEmployee{
			EmpID:       emp.EmpID,
			Name:        emp.Name,
			Department:  emp.Department,
			Designation: emp.Designation,
			CreatedAt:   emp.CreatedAt,
			UpdatedAt:   emp.UpdatedAt,
			Synced:      true,
			CloudID:     emp.ID,
		}

		if _, err := s.storage.SaveEmployee(local); err != nil {
			result.Errors = append(result.Errors, SyncError{
				Key:       emp.EmpID,
				Operation: "pull_employee",
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			continue
		}

		result.PulledEmployees++
	}

	s.log.Debug("дозагружены сотрудники", "count", result.PulledEmployees)
	return nil
}

// pullEntries дозагружает записи посещений, которых нет локально
func (s *SyncService) pullEntries(ctx context.Context, result *SyncResult) error {
	remote, err := s.remote.ListAttendance(ctx)
	if err != nil {
		result.Errors = append(result.Errors, SyncError{
			Operation: "pull_entries",
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return fmt.Errorf("ошибка получения записей посещений с сервера: %w", err)
	}

	for _, entry := range remote {
		if _, err := s.storage.GetEntryByKey(entry.EmpID, entry.AttendanceDate); err == nil {
			// Запись уже есть локально
			continue
		}

		deviceID := entry.DeviceID
		if deviceID == "" {
			deviceID = attendance.DeviceCloud
		}

		local := &LocalEntry{
			EmpID:          entry.EmpID,
			AttendanceDate: entry.AttendanceDate,
			LoginTime:      entry.LoginTime,
			LogoutTime:     entry.LogoutTime,
			WorkingMinutes: entry.WorkingMinutes,
			DeviceID:       deviceID,
			UpdatedAt:      entry.UpdatedAt,
			Synced:         true,
			CloudID:        entry.ID,
		}

		if _, err := s.storage.SaveEntry(local); err != nil {
			result.Errors = append(result.Errors, SyncError{
				Key:       entry.EmpID + "|" + entry.AttendanceDate,
				Operation: "pull_entry",
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			continue
		}

		result.PulledEntries++
	}

	s.log.Debug("дозагружены записи посещений", "count", result.PulledEntries)
	return nil
}

// buildLogEntry собирает запись журнала. Прерванный проход (cycleErr != nil)
// всегда получает статус failed, даже если часть записей успела уйти.
func (s *SyncService) buildLogEntry(result *SyncResult, cycleErr error) *SyncLogEntry {
	status := "ok"
	message := ""
	switch {
	case cycleErr != nil:
		status = "failed"
		message = cycleErr.Error()
	case len(result.Errors) > 0:
		status = "partial"
		if result.Pushed() == 0 && result.Pulled() == 0 {
			status = "failed"
		}
		message = result.Errors[0].Error
	}

	return &SyncLogEntry{
		StartedAt:       result.StartTime,
		FinishedAt:      result.EndTime,
		PushedEmployees: result.PushedEmployees,
		PushedEntries:   result.PushedEntries,
		PulledEmployees: result.PulledEmployees,
		PulledEntries:   result.PulledEntries,
		Failed:          len(result.Errors),
		Status:          status,
		Message:         message,
	}
}

// PendingCount возвращает число записей, ожидающих отправки
func (s *SyncService) PendingCount() (int, error) {
	return s.storage.PendingCount()
}

// GetLastSyncTime возвращает время последней синхронизации
func (s *SyncService) GetLastSyncTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync
}

// IsSyncing проверяет, выполняется ли синхронизация
func (s *SyncService) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// StartAutoSync запускает автоматическую синхронизацию
func (s *SyncService) StartAutoSync(ctx context.Context) {
	s.log.Info("запуск автоматической синхронизации", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("автоматическая синхронизация остановлена")
			return
		case <-ticker.C:
			if _, err := s.Sync(ctx); err != nil {
				s.log.Error("ошибка автоматической синхронизации", "error", err)
			}
		}
	}
}

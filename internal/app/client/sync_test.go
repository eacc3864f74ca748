package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"tabelkeeper/internal/domain/attendance"
	"tabelkeeper/internal/domain/employee"
)

// fakeRemote - тестовый облачный сервер с инъекцией ошибок
// по отдельным ключам и по целым спискам
type fakeRemote struct {
	mu               sync.Mutex
	healthErr        error
	employees        map[string]*employee.Employee
	entries          map[string]*attendance.Entry
	failKeys         map[string]error
	listEmployeesErr error
	listEntriesErr   error
	listEntriesCalls int
	nextID           int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		employees: make(map[string]*employee.Employee),
		entries:   make(map[string]*attendance.Entry),
		failKeys:  make(map[string]error),
	}
}

func (f *fakeRemote) HealthCheck(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.healthErr
}

func (f *fakeRemote) UpsertEmployee(_ context.Context, req EmployeeUpsertRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.failKeys[req.EmpID]; ok {
		return "", err
	}

	existing, ok := f.employees[req.EmpID]
	id := ""
	if ok {
		id = existing.ID
	} else {
		f.nextID++
		id = fmt.Sprintf("srv-%d", f.nextID)
	}

	f.employees[req.EmpID] = &employee.Employee{
		ID:          id,
		EmpID:       req.EmpID,
		Name:        req.Name,
		Department:  req.Department,
		Designation: req.Designation,
		CreatedAt:   req.CreatedAt,
		UpdatedAt:   req.UpdatedAt,
	}
	return id, nil
}

func (f *fakeRemote) ListEmployees(_ context.Context) ([]*employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listEmployeesErr != nil {
		return nil, f.listEmployeesErr
	}

	var list []*employee.Employee
	for _, emp := range f.employees {
		cp := *emp
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].EmpID < list[j].EmpID })
	return list, nil
}

func (f *fakeRemote) UpsertAttendance(_ context.Context, req AttendanceUpsertRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := req.EmpID + "|" + req.AttendanceDate
	if err, ok := f.failKeys[key]; ok {
		return "", err
	}

	existing, ok := f.entries[key]
	id := ""
	if ok {
		id = existing.ID
	} else {
		f.nextID++
		id = fmt.Sprintf("srv-%d", f.nextID)
	}

	f.entries[key] = &attendance.Entry{
		ID:             id,
		EmpID:          req.EmpID,
		AttendanceDate: req.AttendanceDate,
		LoginTime:      req.LoginTime,
		LogoutTime:     req.LogoutTime,
		WorkingMinutes: req.WorkingMinutes,
		DeviceID:       req.DeviceID,
		UpdatedAt:      req.UpdatedAt,
	}
	return id, nil
}

func (f *fakeRemote) ListAttendance(_ context.Context) ([]*attendance.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listEntriesCalls++
	if f.listEntriesErr != nil {
		return nil, f.listEntriesErr
	}

	var list []*attendance.Entry
	for _, entry := range f.entries {
		cp := *entry
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].EmpID < list[j].EmpID })
	return list, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSync(storage Storage, remote Remote) *SyncService {
	return NewSyncService(storage, remote, "kiosk-test", time.Minute, testLogger())
}

func seedEmployee(t *testing.T, storage Storage, empID, name string) *LocalEmployee {
	t.Helper()

	now := time.Now()
	emp := &LocalEmployee{
		EmpID:     empID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := storage.SaveEmployee(emp)
	require.NoError(t, err)
	emp.ID = id
	return emp
}

func seedOpenEntry(t *testing.T, storage Storage, empID, date string, login time.Time) *LocalEntry {
	t.Helper()

	entry := &LocalEntry{
		EmpID:          empID,
		AttendanceDate: date,
		LoginTime:      login,
		DeviceID:       "kiosk-test",
		UpdatedAt:      login,
	}
	id, err := storage.SaveEntry(entry)
	require.NoError(t, err)
	entry.ID = id
	return entry
}

func TestSync_PushMarksSynced(t *testing.T) {
	storage := NewMemoryStorage()
	remote := newFakeRemote()
	svc := newTestSync(storage, remote)

	seedEmployee(t, storage, "EMP001", "Ivan")
	login := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	seedOpenEntry(t, storage, "EMP001", "2025-03-14", login)

	pending, err := storage.PendingCount()
	require.NoError(t, err)
	assert.Equal(t, 2, pending)

	result, err := svc.Sync(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 1, result.PushedEmployees)
	assert.Equal(t, 1, result.PushedEntries)
	assert.Empty(t, result.Errors)

	// Все помечено синхронизированным, облачные идентификаторы сохранены
	pending, err = storage.PendingCount()
	require.NoError(t, err)
	assert.Equal(t, 0, pending)

	emp, err := storage.GetEmployeeByEmpID("EMP001")
	require.NoError(t, err)
	assert.True(t, emp.Synced)
	assert.NotEmpty(t, emp.CloudID)

	entry, err := storage.GetEntryByKey("EMP001", "2025-03-14")
	require.NoError(t, err)
	assert.True(t, entry.Synced)
	assert.NotEmpty(t, entry.CloudID)
}

func TestSync_Idempotent(t *testing.T) {
	storage := NewMemoryStorage()
	remote := newFakeRemote()
	svc := newTestSync(storage, remote)

	seedEmployee(t, storage, "EMP001", "Ivan")
	seedOpenEntry(t, storage, "EMP001", "2025-03-14", time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))

	first, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Pushed())

	// Повторный проход без изменений ничего не отправляет и не дозагружает
	second, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Pushed())
	assert.Equal(t, 0, second.Pulled())
	assert.Empty(t, second.Errors)
}

func TestSync_PullIsAdditive(t *testing.T) {
	storage := NewMemoryStorage()
	remote := newFakeRemote()
	svc := newTestSync(storage, remote)

	// Локальная открытая смена
	localLogin := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	seedEmployee(t, storage, "EMP001", "Ivan")
	seedOpenEntry(t, storage, "EMP001", "2025-03-14", localLogin)

	// На сервере запись с тем же ключом, но закрытая
	serverLogout := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
	minutes := 540
	remote.entries["EMP001|2025-03-14"] = &attendance.Entry{
		ID:             "srv-99",
		EmpID:          "EMP001",
		AttendanceDate: "2025-03-14",
		LoginTime:      localLogin,
		LogoutTime:     &serverLogout,
		WorkingMinutes: &minutes,
	}
	// И запись за другой день, которой локально нет
	remote.entries["EMP001|2025-03-13"] = &attendance.Entry{
		ID:             "srv-98",
		EmpID:          "EMP001",
		AttendanceDate: "2025-03-13",
		LoginTime:      localLogin.AddDate(0, 0, -1),
	}

	result, err := svc.Sync(context.Background())
	require.NoError(t, err)

	// Дозагружена только отсутствующая запись
	assert.Equal(t, 1, result.PulledEntries)

	// Локальная запись не перезаписана серверной
	entry, err := storage.GetEntryByKey("EMP001", "2025-03-14")
	require.NoError(t, err)
	assert.True(t, entry.Synced)
	assert.Nil(t, entry.LogoutTime, "дозагрузка не должна трогать локальную запись")
}

func TestSync_PullDefaultsCloudDevice(t *testing.T) {
	storage := NewMemoryStorage()
	remote := newFakeRemote()
	svc := newTestSync(storage, remote)

	remote.employees["EMP002"] = &employee.Employee{ID: "srv-1", EmpID: "EMP002", Name: "Olga"}
	remote.entries["EMP002|2025-03-14"] = &attendance.Entry{
		ID:             "srv-2",
		EmpID:          "EMP002",
		AttendanceDate: "2025-03-14",
		LoginTime:      time.Date(2025, 3, 14, 8, 30, 0, 0, time.UTC),
	}

	result, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.PulledEmployees)
	assert.Equal(t, 1, result.PulledEntries)

	// Дозагруженные записи сразу синхронизированы и не попадают в отправку
	pending, err := storage.PendingCount()
	require.NoError(t, err)
	assert.Equal(t, 0, pending)

	emp, err := storage.GetEmployeeByEmpID("EMP002")
	require.NoError(t, err)
	assert.True(t, emp.Synced)
	assert.Equal(t, "srv-1", emp.CloudID)

	entry, err := storage.GetEntryByKey("EMP002", "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, attendance.DeviceCloud, entry.DeviceID)
}

func TestSync_PartialFailureIsolated(t *testing.T) {
	storage := NewMemoryStorage()
	remote := newFakeRemote()
	svc := newTestSync(storage, remote)

	login := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	seedEmployee(t, storage, "EMP001", "Ivan")
	seedEmployee(t, storage, "EMP002", "Olga")
	seedEmployee(t, storage, "EMP003", "Petr")
	seedOpenEntry(t, storage, "EMP001", "2025-03-14", login)
	seedOpenEntry(t, storage, "EMP002", "2025-03-14", login)
	seedOpenEntry(t, storage, "EMP003", "2025-03-14", login)

	// Вторая запись падает на сервере
	remote.failKeys["EMP002|2025-03-14"] = errors.New("boom")

	result, err := svc.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.PushedEntries)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "EMP002|2025-03-14", result.Errors[0].Key)

	// Упавшая запись осталась несинхронизированной
	entry, err := storage.GetEntryByKey("EMP002", "2025-03-14")
	require.NoError(t, err)
	assert.False(t, entry.Synced)

	pending, err := storage.PendingCount()
	require.NoError(t, err)
	assert.Equal(t, 1, pending)

	// После устранения ошибки следующий проход дошлет запись
	delete(remote.failKeys, "EMP002|2025-03-14")

	result, err = svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.PushedEntries)
	assert.Empty(t, result.Errors)

	pending, err = storage.PendingCount()
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
}

func TestSync_OfflineNoOp(t *testing.T) {
	storage := NewMemoryStorage()
	remote := newFakeRemote()
	remote.healthErr = errors.New("connection refused")
	svc := newTestSync(storage, remote)

	seedEmployee(t, storage, "EMP001", "Ivan")

	result, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)

	// Данные остались в очереди
	pending, err := storage.PendingCount()
	require.NoError(t, err)
	assert.Equal(t, 1, pending)

	logs, err := storage.ListSyncLogs(0)
	require.NoError(t, err)
	assert.Empty(t, logs, "пропущенный проход не попадает в журнал")
}

func TestSync_WritesLog(t *testing.T) {
	storage := NewMemoryStorage()
	remote := newFakeRemote()
	svc := newTestSync(storage, remote)

	seedEmployee(t, storage, "EMP001", "Ivan")
	seedOpenEntry(t, storage, "EMP001", "2025-03-14", time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))

	_, err := svc.Sync(context.Background())
	require.NoError(t, err)

	logs, err := storage.ListSyncLogs(10)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	assert.Equal(t, "ok", logs[0].Status)
	assert.Equal(t, 1, logs[0].PushedEmployees)
	assert.Equal(t, 1, logs[0].PushedEntries)
	assert.Equal(t, 0, logs[0].Failed)
	assert.False(t, logs[0].FinishedAt.Before(logs[0].StartedAt))
}

func TestSync_LogStatusPartial(t *testing.T) {
	storage := NewMemoryStorage()
	remote := newFakeRemote()
	svc := newTestSync(storage, remote)

	seedEmployee(t, storage, "EMP001", "Ivan")
	seedEmployee(t, storage, "EMP002", "Olga")
	remote.failKeys["EMP002"] = errors.New("boom")

	_, err := svc.Sync(context.Background())
	require.NoError(t, err)

	logs, err := storage.ListSyncLogs(1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "partial", logs[0].Status)
	assert.Equal(t, 1, logs[0].Failed)
	assert.NotEmpty(t, logs[0].Message)
}

func TestSync_PhaseFailureAbortsCycle(t *testing.T) {
	storage := NewMemoryStorage()
	remote := newFakeRemote()
	svc := newTestSync(storage, remote)

	seedEmployee(t, storage, "EMP001", "Ivan")
	seedOpenEntry(t, storage, "EMP001", "2025-03-14", time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))

	// Дозагрузка сотрудников падает целиком
	remote.listEmployeesErr = errors.New("connection reset")

	result, err := svc.Sync(context.Background())
	require.Error(t, err)
	require.NotNil(t, result)

	// Фазы отправки успели отработать
	assert.Equal(t, 1, result.PushedEmployees)
	assert.Equal(t, 1, result.PushedEntries)

	// Следующая фаза после упавшей не выполнялась
	assert.Equal(t, 0, remote.listEntriesCalls)

	// Время последней синхронизации не продвинуто
	assert.True(t, svc.GetLastSyncTime().IsZero())

	// Прерванный проход попадает в журнал со статусом failed
	logs, err := storage.ListSyncLogs(1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "failed", logs[0].Status)
	assert.NotEmpty(t, logs[0].Message)

	// Сервис не застрял в состоянии синхронизации
	assert.False(t, svc.IsSyncing())

	// После восстановления следующий проход завершается успешно
	remote.listEmployeesErr = nil

	result, err = svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.False(t, svc.GetLastSyncTime().IsZero())
}

func TestSync_CycleFailureKeepsLastSync(t *testing.T) {
	storage := NewMemoryStorage()
	remote := newFakeRemote()
	svc := newTestSync(storage, remote)

	seedEmployee(t, storage, "EMP001", "Ivan")

	_, err := svc.Sync(context.Background())
	require.NoError(t, err)

	lastSync := svc.GetLastSyncTime()
	require.False(t, lastSync.IsZero())

	// Полный отказ: отдельные записи падают, списки недоступны
	seedEmployee(t, storage, "EMP002", "Olga")
	remote.failKeys["EMP002"] = errors.New("boom")
	remote.listEmployeesErr = errors.New("boom")
	remote.listEntriesErr = errors.New("boom")

	_, err = svc.Sync(context.Background())
	require.Error(t, err)

	// Проход провалился - время последней синхронизации прежнее
	assert.Equal(t, lastSync, svc.GetLastSyncTime())
}

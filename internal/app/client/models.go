package client

import (
	"sort"
	"sync"
	"time"
)

// LocalEmployee - локальная модель сотрудника
type LocalEmployee struct {
	ID          int64     `json:"id"`
	EmpID       string    `json:"emp_id"`
	Name        string    `json:"name"`
	Department  string    `json:"department"`
	Designation string    `json:"designation"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Synced      bool      `json:"synced"`
	CloudID     string    `json:"cloud_id"`
}

// LocalEntry - локальная модель записи посещения.
// Натуральный ключ — пара (emp_id, attendance_date).
type LocalEntry struct {
	ID             int64      `json:"id"`
	EmpID          string     `json:"emp_id"`
	AttendanceDate string     `json:"attendance_date"`
	LoginTime      time.Time  `json:"login_time"`
	LogoutTime     *time.Time `json:"logout_time"`
	WorkingMinutes *int       `json:"working_minutes"`
	DeviceID       string     `json:"device_id"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Synced         bool       `json:"synced"`
	CloudID        string     `json:"cloud_id"`
}

// Closed сообщает, закрыта ли смена
func (e *LocalEntry) Closed() bool {
	return e.LogoutTime != nil
}

// EntryFilter - фильтр списка посещений
type EntryFilter struct {
	EmpID string
	Date  string
	Limit int
}

// SyncLogEntry - запись журнала синхронизаций
type SyncLogEntry struct {
	ID              int64     `json:"id"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	PushedEmployees int       `json:"pushed_employees"`
	PushedEntries   int       `json:"pushed_entries"`
	PulledEmployees int       `json:"pulled_employees"`
	PulledEntries   int       `json:"pulled_entries"`
	Failed          int       `json:"failed"`
	Status          string    `json:"status"` // ok, partial, failed
	Message         string    `json:"message,omitempty"`
}

// DashboardStats - показатели панели за день
type DashboardStats struct {
	TotalEmployees    int `json:"total_employees"`
	PresentToday      int `json:"present_today"`
	OpenShifts        int `json:"open_shifts"`
	ClosedToday       int `json:"closed_today"`
	PendingSync       int `json:"pending_sync"`
	TotalMinutesToday int `json:"total_minutes_today"`
}

// MemoryStorage - in-memory хранилище, используется в тестах
type MemoryStorage struct {
	mu        sync.Mutex
	nextID    int64
	employees map[string]*LocalEmployee // по emp_id
	entries   map[string]*LocalEntry    // по emp_id + "|" + attendance_date
	syncLogs  []*SyncLogEntry
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		nextID:    1,
		employees: make(map[string]*LocalEmployee),
		entries:   make(map[string]*LocalEntry),
	}
}

func entryKey(empID, date string) string {
	return empID + "|" + date
}

func (m *MemoryStorage) SaveEmployee(emp *LocalEmployee) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.employees[emp.EmpID]; ok {
		return 0, &DuplicateError{Key: existing.EmpID}
	}

	stored := *emp
	stored.ID = m.nextID
	m.nextID++
	m.employees[stored.EmpID] = &stored
	return stored.ID, nil
}

func (m *MemoryStorage) GetEmployeeByEmpID(empID string) (*LocalEmployee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	emp, ok := m.employees[empID]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	cp := *emp
	return &cp, nil
}

func (m *MemoryStorage) ListEmployees() ([]*LocalEmployee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	employees := make([]*LocalEmployee, 0, len(m.employees))
	for _, emp := range m.employees {
		cp := *emp
		employees = append(employees, &cp)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].EmpID < employees[j].EmpID })
	return employees, nil
}

func (m *MemoryStorage) UpdateEmployee(emp *LocalEmployee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[emp.EmpID]; !ok {
		return ErrEmployeeNotFound
	}
	cp := *emp
	m.employees[emp.EmpID] = &cp
	return nil
}

func (m *MemoryStorage) DeleteEmployee(empID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[empID]; !ok {
		return ErrEmployeeNotFound
	}
	delete(m.employees, empID)

	// Каскадное удаление записей посещений
	for key, entry := range m.entries {
		if entry.EmpID == empID {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *MemoryStorage) UnsyncedEmployees() ([]*LocalEmployee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var unsynced []*LocalEmployee
	for _, emp := range m.employees {
		if !emp.Synced {
			cp := *emp
			unsynced = append(unsynced, &cp)
		}
	}
	sort.Slice(unsynced, func(i, j int) bool { return unsynced[i].ID < unsynced[j].ID })
	return unsynced, nil
}

func (m *MemoryStorage) MarkEmployeeSynced(id int64, cloudID string, syncedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, emp := range m.employees {
		if emp.ID == id {
			emp.Synced = true
			emp.CloudID = cloudID
			return nil
		}
	}
	return ErrEmployeeNotFound
}

func (m *MemoryStorage) SaveEntry(entry *LocalEntry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := entryKey(entry.EmpID, entry.AttendanceDate)
	if _, ok := m.entries[key]; ok {
		return 0, &DuplicateError{Key: key}
	}

	stored := *entry
	stored.ID = m.nextID
	m.nextID++
	m.entries[key] = &stored
	return stored.ID, nil
}

func (m *MemoryStorage) GetEntryByKey(empID, date string) (*LocalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[entryKey(empID, date)]
	if !ok {
		return nil, ErrEntryNotFound
	}
	cp := *entry
	return &cp, nil
}

func (m *MemoryStorage) ListEntries(filter *EntryFilter) ([]*LocalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var entries []*LocalEntry
	for _, entry := range m.entries {
		if filter != nil {
			if filter.EmpID != "" && entry.EmpID != filter.EmpID {
				continue
			}
			if filter.Date != "" && entry.AttendanceDate != filter.Date {
				continue
			}
		}
		cp := *entry
		entries = append(entries, &cp)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AttendanceDate != entries[j].AttendanceDate {
			return entries[i].AttendanceDate > entries[j].AttendanceDate
		}
		return entries[i].EmpID < entries[j].EmpID
	})

	if filter != nil && filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[:filter.Limit]
	}
	return entries, nil
}

func (m *MemoryStorage) UpdateEntry(entry *LocalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := entryKey(entry.EmpID, entry.AttendanceDate)
	if _, ok := m.entries[key]; !ok {
		return ErrEntryNotFound
	}
	cp := *entry
	m.entries[key] = &cp
	return nil
}

func (m *MemoryStorage) UnsyncedEntries() ([]*LocalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var unsynced []*LocalEntry
	for _, entry := range m.entries {
		if !entry.Synced {
			cp := *entry
			unsynced = append(unsynced, &cp)
		}
	}
	sort.Slice(unsynced, func(i, j int) bool { return unsynced[i].ID < unsynced[j].ID })
	return unsynced, nil
}

func (m *MemoryStorage) MarkEntrySynced(id int64, cloudID string, syncedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range m.entries {
		if entry.ID == id {
			entry.Synced = true
			entry.CloudID = cloudID
			return nil
		}
	}
	return ErrEntryNotFound
}

func (m *MemoryStorage) PendingCount() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, emp := range m.employees {
		if !emp.Synced {
			count++
		}
	}
	for _, entry := range m.entries {
		if !entry.Synced {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStorage) SaveSyncLog(logEntry *SyncLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *logEntry
	cp.ID = m.nextID
	m.nextID++
	m.syncLogs = append(m.syncLogs, &cp)
	return nil
}

func (m *MemoryStorage) ListSyncLogs(limit int) ([]*SyncLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	logs := make([]*SyncLogEntry, 0, len(m.syncLogs))
	for i := len(m.syncLogs) - 1; i >= 0; i-- {
		cp := *m.syncLogs[i]
		logs = append(logs, &cp)
		if limit > 0 && len(logs) >= limit {
			break
		}
	}
	return logs, nil
}

func (m *MemoryStorage) Stats(date string) (*DashboardStats, error) {
	m.mu.Lock()

	stats := &DashboardStats{
		TotalEmployees: len(m.employees),
	}
	for _, entry := range m.entries {
		if entry.AttendanceDate != date {
			continue
		}
		stats.PresentToday++
		if entry.Closed() {
			stats.ClosedToday++
			if entry.WorkingMinutes != nil {
				stats.TotalMinutesToday += *entry.WorkingMinutes
			}
		} else {
			stats.OpenShifts++
		}
	}
	m.mu.Unlock()

	pending, err := m.PendingCount()
	if err != nil {
		return nil, err
	}
	stats.PendingSync = pending
	return stats, nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

var _ Storage = (*MemoryStorage)(nil)

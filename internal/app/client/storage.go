package client

import "time"

// Storage - контракт локального хранилища киоска.
// Все операции работают с локальной базой и не требуют сети.
type Storage interface {
	// Сотрудники
	SaveEmployee(emp *LocalEmployee) (int64, error)
	GetEmployeeByEmpID(empID string) (*LocalEmployee, error)
	ListEmployees() ([]*LocalEmployee, error)
	UpdateEmployee(emp *LocalEmployee) error
	// DeleteEmployee удаляет сотрудника и каскадно все его записи посещений.
	DeleteEmployee(empID string) error
	UnsyncedEmployees() ([]*LocalEmployee, error)
	MarkEmployeeSynced(id int64, cloudID string, syncedAt time.Time) error

	// Посещения
	SaveEntry(entry *LocalEntry) (int64, error)
	GetEntryByKey(empID, date string) (*LocalEntry, error)
	ListEntries(filter *EntryFilter) ([]*LocalEntry, error)
	UpdateEntry(entry *LocalEntry) error
	UnsyncedEntries() ([]*LocalEntry, error)
	MarkEntrySynced(id int64, cloudID string, syncedAt time.Time) error

	// Состояние синхронизации
	PendingCount() (int, error)
	SaveSyncLog(logEntry *SyncLogEntry) error
	ListSyncLogs(limit int) ([]*SyncLogEntry, error)

	// Stats собирает показатели панели за календарный день.
	Stats(date string) (*DashboardStats, error)

	Close() error
}

package client

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	storage := &SQLiteStorage{db: db}

	// Создаем таблицы
	if err := storage.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка инициализации таблиц: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS employees (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			emp_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			department TEXT NOT NULL DEFAULT '',
			designation TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			synced BOOLEAN NOT NULL DEFAULT 0,
			cloud_id TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS attendance (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			emp_id TEXT NOT NULL REFERENCES employees(emp_id) ON DELETE CASCADE,
			attendance_date TEXT NOT NULL,
			login_time DATETIME NOT NULL,
			logout_time DATETIME,
			working_minutes INTEGER,
			device_id TEXT NOT NULL DEFAULT '',
			updated_at DATETIME NOT NULL,
			synced BOOLEAN NOT NULL DEFAULT 0,
			cloud_id TEXT NOT NULL DEFAULT '',
			UNIQUE(emp_id, attendance_date)
		);

		CREATE TABLE IF NOT EXISTS sync_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at DATETIME NOT NULL,
			finished_at DATETIME NOT NULL,
			pushed_employees INTEGER NOT NULL DEFAULT 0,
			pushed_entries INTEGER NOT NULL DEFAULT 0,
			pulled_employees INTEGER NOT NULL DEFAULT 0,
			pulled_entries INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_attendance_emp ON attendance(emp_id);
		CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(attendance_date);
		CREATE INDEX IF NOT EXISTS idx_attendance_synced ON attendance(synced);
		CREATE INDEX IF NOT EXISTS idx_employees_synced ON employees(synced);
	`)

	return err
}

func (s *SQLiteStorage) SaveEmployee(emp *LocalEmployee) (int64, error) {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM employees WHERE emp_id = ?)", emp.EmpID).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("ошибка проверки существования сотрудника: %w", err)
	}
	if exists {
		return 0, &DuplicateError{Key: emp.EmpID}
	}

	res, err := s.db.Exec(`
		INSERT INTO employees (emp_id, name, department, designation, created_at, updated_at, synced, cloud_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, emp.EmpID, emp.Name, emp.Department, emp.Designation,
		emp.CreatedAt.Format(time.RFC3339), emp.UpdatedAt.Format(time.RFC3339),
		emp.Synced, emp.CloudID)
	if err != nil {
		return 0, fmt.Errorf("ошибка сохранения сотрудника: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ошибка получения идентификатора: %w", err)
	}
	return id, nil
}

func (s *SQLiteStorage) GetEmployeeByEmpID(empID string) (*LocalEmployee, error) {
	row := s.db.QueryRow(`
		SELECT id, emp_id, name, department, designation, created_at, updated_at, synced, cloud_id
		FROM employees
		WHERE emp_id = ?
	`, empID)

	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сотрудника: %w", err)
	}
	return emp, nil
}

func (s *SQLiteStorage) ListEmployees() ([]*LocalEmployee, error) {
	return s.queryEmployees(`
		SELECT id, emp_id, name, department, designation, created_at, updated_at, synced, cloud_id
		FROM employees
		ORDER BY emp_id
	`)
}

func (s *SQLiteStorage) UpdateEmployee(emp *LocalEmployee) error {
	res, err := s.db.Exec(`
		UPDATE employees
		SET name = ?, department = ?, designation = ?, updated_at = ?, synced = ?, cloud_id = ?
		WHERE emp_id = ?
	`, emp.Name, emp.Department, emp.Designation, emp.UpdatedAt.Format(time.RFC3339),
		emp.Synced, emp.CloudID, emp.EmpID)
	if err != nil {
		return fmt.Errorf("ошибка обновления сотрудника: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка проверки обновления: %w", err)
	}
	if affected == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *SQLiteStorage) DeleteEmployee(empID string) error {
	// Записи посещений удаляются каскадно по внешнему ключу
	res, err := s.db.Exec("DELETE FROM employees WHERE emp_id = ?", empID)
	if err != nil {
		return fmt.Errorf("ошибка удаления сотрудника: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка проверки удаления: %w", err)
	}
	if affected == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *SQLiteStorage) UnsyncedEmployees() ([]*LocalEmployee, error) {
	return s.queryEmployees(`
		SELECT id, emp_id, name, department, designation, created_at, updated_at, synced, cloud_id
		FROM employees
		WHERE synced = 0
		ORDER BY id
	`)
}

func (s *SQLiteStorage) MarkEmployeeSynced(id int64, cloudID string, syncedAt time.Time) error {
	_, err := s.db.Exec(`
		UPDATE employees SET synced = 1, cloud_id = ? WHERE id = ?
	`, cloudID, id)
	if err != nil {
		return fmt.Errorf("ошибка отметки синхронизации сотрудника: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) SaveEntry(entry *LocalEntry) (int64, error) {
	var exists bool
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM attendance WHERE emp_id = ? AND attendance_date = ?)",
		entry.EmpID, entry.AttendanceDate,
	).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("ошибка проверки существования записи: %w", err)
	}
	if exists {
		return 0, &DuplicateError{Key: entry.EmpID + "|" + entry.AttendanceDate}
	}

	var logout interface{}
	if entry.LogoutTime != nil {
		logout = entry.LogoutTime.Format(time.RFC3339)
	}
	var minutes interface{}
	if entry.WorkingMinutes != nil {
		minutes = *entry.WorkingMinutes
	}

	res, err := s.db.Exec(`
		INSERT INTO attendance (emp_id, attendance_date, login_time, logout_time, working_minutes,
		                        device_id, updated_at, synced, cloud_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.EmpID, entry.AttendanceDate, entry.LoginTime.Format(time.RFC3339), logout, minutes,
		entry.DeviceID, entry.UpdatedAt.Format(time.RFC3339), entry.Synced, entry.CloudID)
	if err != nil {
		return 0, fmt.Errorf("ошибка сохранения записи посещения: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ошибка получения идентификатора: %w", err)
	}
	return id, nil
}

func (s *SQLiteStorage) GetEntryByKey(empID, date string) (*LocalEntry, error) {
	row := s.db.QueryRow(`
		SELECT id, emp_id, attendance_date, login_time, logout_time, working_minutes,
		       device_id, updated_at, synced, cloud_id
		FROM attendance
		WHERE emp_id = ? AND attendance_date = ?
	`, empID, date)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения записи посещения: %w", err)
	}
	return entry, nil
}

func (s *SQLiteStorage) ListEntries(filter *EntryFilter) ([]*LocalEntry, error) {
	query := `
		SELECT id, emp_id, attendance_date, login_time, logout_time, working_minutes,
		       device_id, updated_at, synced, cloud_id
		FROM attendance
		WHERE 1=1
	`
	args := []interface{}{}

	if filter != nil && filter.EmpID != "" {
		query += " AND emp_id = ?"
		args = append(args, filter.EmpID)
	}
	if filter != nil && filter.Date != "" {
		query += " AND attendance_date = ?"
		args = append(args, filter.Date)
	}

	query += " ORDER BY attendance_date DESC, emp_id"

	if filter != nil && filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	return s.queryEntries(query, args...)
}

func (s *SQLiteStorage) UpdateEntry(entry *LocalEntry) error {
	var logout interface{}
	if entry.LogoutTime != nil {
		logout = entry.LogoutTime.Format(time.RFC3339)
	}
	var minutes interface{}
	if entry.WorkingMinutes != nil {
		minutes = *entry.WorkingMinutes
	}

	res, err := s.db.Exec(`
		UPDATE attendance
		SET login_time = ?, logout_time = ?, working_minutes = ?, device_id = ?,
		    updated_at = ?, synced = ?, cloud_id = ?
		WHERE emp_id = ? AND attendance_date = ?
	`, entry.LoginTime.Format(time.RFC3339), logout, minutes, entry.DeviceID,
		entry.UpdatedAt.Format(time.RFC3339), entry.Synced, entry.CloudID,
		entry.EmpID, entry.AttendanceDate)
	if err != nil {
		return fmt.Errorf("ошибка обновления записи посещения: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка проверки обновления: %w", err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *SQLiteStorage) UnsyncedEntries() ([]*LocalEntry, error) {
	return s.queryEntries(`
		SELECT id, emp_id, attendance_date, login_time, logout_time, working_minutes,
		       device_id, updated_at, synced, cloud_id
		FROM attendance
		WHERE synced = 0
		ORDER BY id
	`)
}

func (s *SQLiteStorage) MarkEntrySynced(id int64, cloudID string, syncedAt time.Time) error {
	_, err := s.db.Exec(`
		UPDATE attendance SET synced = 1, cloud_id = ? WHERE id = ?
	`, cloudID, id)
	if err != nil {
		return fmt.Errorf("ошибка отметки синхронизации записи: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) PendingCount() (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT (SELECT COUNT(*) FROM employees WHERE synced = 0) +
		       (SELECT COUNT(*) FROM attendance WHERE synced = 0)
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета несинхронизированных записей: %w", err)
	}
	return count, nil
}

func (s *SQLiteStorage) SaveSyncLog(logEntry *SyncLogEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO sync_log (started_at, finished_at, pushed_employees, pushed_entries,
		                      pulled_employees, pulled_entries, failed, status, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, logEntry.StartedAt.Format(time.RFC3339), logEntry.FinishedAt.Format(time.RFC3339),
		logEntry.PushedEmployees, logEntry.PushedEntries,
		logEntry.PulledEmployees, logEntry.PulledEntries,
		logEntry.Failed, logEntry.Status, logEntry.Message)
	if err != nil {
		return fmt.Errorf("ошибка записи журнала синхронизации: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) ListSyncLogs(limit int) ([]*SyncLogEntry, error) {
	query := `
		SELECT id, started_at, finished_at, pushed_employees, pushed_entries,
		       pulled_employees, pulled_entries, failed, status, message
		FROM sync_log
		ORDER BY id DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала синхронизации: %w", err)
	}
	defer rows.Close()

	var logs []*SyncLogEntry
	for rows.Next() {
		var logEntry SyncLogEntry
		var startedAt, finishedAt string

		if err := rows.Scan(&logEntry.ID, &startedAt, &finishedAt,
			&logEntry.PushedEmployees, &logEntry.PushedEntries,
			&logEntry.PulledEmployees, &logEntry.PulledEntries,
			&logEntry.Failed, &logEntry.Status, &logEntry.Message); err != nil {
			return nil, fmt.Errorf("ошибка сканирования журнала: %w", err)
		}

		logEntry.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		logEntry.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)

		logs = append(logs, &logEntry)
	}

	return logs, rows.Err()
}

func (s *SQLiteStorage) Stats(date string) (*DashboardStats, error) {
	stats := &DashboardStats{}

	err := s.db.QueryRow("SELECT COUNT(*) FROM employees").Scan(&stats.TotalEmployees)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчета сотрудников: %w", err)
	}

	err = s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN logout_time IS NULL THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN logout_time IS NOT NULL THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(COALESCE(working_minutes, 0)), 0)
		FROM attendance
		WHERE attendance_date = ?
	`, date).Scan(&stats.PresentToday, &stats.OpenShifts, &stats.ClosedToday, &stats.TotalMinutesToday)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчета посещений: %w", err)
	}

	pending, err := s.PendingCount()
	if err != nil {
		return nil, err
	}
	stats.PendingSync = pending

	return stats, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// rowScanner покрывает *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (*LocalEmployee, error) {
	var emp LocalEmployee
	var createdAt, updatedAt string

	if err := row.Scan(&emp.ID, &emp.EmpID, &emp.Name, &emp.Department, &emp.Designation,
		&createdAt, &updatedAt, &emp.Synced, &emp.CloudID); err != nil {
		return nil, err
	}

	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	emp.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &emp, nil
}

func scanEntry(row rowScanner) (*LocalEntry, error) {
	var entry LocalEntry
	var loginAt, updatedAt string
	var logoutAt sql.NullString
	var minutes sql.NullInt64

	if err := row.Scan(&entry.ID, &entry.EmpID, &entry.AttendanceDate, &loginAt, &logoutAt,
		&minutes, &entry.DeviceID, &updatedAt, &entry.Synced, &entry.CloudID); err != nil {
		return nil, err
	}

	entry.LoginTime, _ = time.Parse(time.RFC3339, loginAt)
	entry.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	if logoutAt.Valid {
		t, _ := time.Parse(time.RFC3339, logoutAt.String)
		entry.LogoutTime = &t
	}
	if minutes.Valid {
		m := int(minutes.Int64)
		entry.WorkingMinutes = &m
	}
	return &entry, nil
}

func (s *SQLiteStorage) queryEmployees(query string, args ...interface{}) ([]*LocalEmployee, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	var employees []*LocalEmployee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования сотрудника: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *SQLiteStorage) queryEntries(query string, args ...interface{}) ([]*LocalEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	var entries []*LocalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи посещения: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

var _ Storage = (*SQLiteStorage)(nil)

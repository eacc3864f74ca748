package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"tabelkeeper/internal/app/client/config"
	"tabelkeeper/internal/domain/attendance"
)

type ctxKey string

const appKey ctxKey = "app"

// WithContext кладет приложение в контекст команды
func WithContext(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey, app)
}

// FromContext достает приложение из контекста команды
func FromContext(ctx context.Context) *App {
	app, _ := ctx.Value(appKey).(*App)
	return app
}

// App - клиентское приложение киоска учета рабочего времени
type App struct {
	config     *config.Config
	log        *slog.Logger
	storage    Storage
	httpClient Remote
	sync       *SyncService
	netmon     *NetMonitor
	recorder   *Recorder
	session    *Session
}

// New создает и связывает компоненты приложения
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	storage, err := NewSQLiteStorage(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}

	httpClient, err := NewHTTPClient(cfg, log)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("ошибка инициализации HTTP клиента: %w", err)
	}

	interval := time.Duration(cfg.SyncInterval) * time.Second

	app := &App{
		config:     cfg,
		log:        log,
		storage:    storage,
		httpClient: httpClient,
		sync:       NewSyncService(storage, httpClient, cfg.DeviceID, interval, log),
		netmon:     NewNetMonitor(httpClient, interval, log),
		recorder:   NewRecorder(storage, cfg.DeviceID, log),
		session:    NewSession(cfg, log),
	}

	// Восстановление связи сразу запускает проход синхронизации
	app.netmon.OnOnline(func() {
		go func() {
			if _, err := app.sync.Sync(context.Background()); err != nil {
				log.Error("ошибка синхронизации после восстановления связи", "error", err)
			}
		}()
	})

	return app, nil
}

// StartBackground запускает фоновые процессы: монитор соединения
// и автоматическую синхронизацию
func (a *App) StartBackground(ctx context.Context) {
	go a.netmon.Start(ctx)
	go a.sync.StartAutoSync(ctx)
}

// Record обрабатывает сканирование табельного номера
func (a *App) Record(empID string) (*RecordResult, error) {
	return a.recorder.Record(empID)
}

// AddEmployee регистрирует нового сотрудника. Требует административной сессии.
func (a *App) AddEmployee(empID, name, department, designation string) (*LocalEmployee, error) {
	if !a.session.IsAdmin() {
		return nil, ErrAdminRequired
	}

	empID = strings.TrimSpace(empID)
	name = strings.TrimSpace(name)
	if empID == "" {
		return nil, fmt.Errorf("табельный номер не может быть пустым")
	}
	if name == "" {
		return nil, fmt.Errorf("имя не может быть пустым")
	}

	now := time.Now()
	emp := &LocalEmployee{
		EmpID:       empID,
		Name:        name,
		Department:  strings.TrimSpace(department),
		Designation: strings.TrimSpace(designation),
		CreatedAt:   now,
		UpdatedAt:   now,
		Synced:      false,
	}

	id, err := a.storage.SaveEmployee(emp)
	if err != nil {
		return nil, err
	}
	emp.ID = id

	a.log.Info("сотрудник добавлен", "emp_id", empID)
	return emp, nil
}

// UpdateEmployee изменяет данные сотрудника. Требует административной сессии.
func (a *App) UpdateEmployee(empID, name, department, designation string) (*LocalEmployee, error) {
	if !a.session.IsAdmin() {
		return nil, ErrAdminRequired
	}

	emp, err := a.storage.GetEmployeeByEmpID(strings.TrimSpace(empID))
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		emp.Name = name
	}
	if department = strings.TrimSpace(department); department != "" {
		emp.Department = department
	}
	if designation = strings.TrimSpace(designation); designation != "" {
		emp.Designation = designation
	}
	emp.UpdatedAt = time.Now()
	emp.Synced = false

	if err := a.storage.UpdateEmployee(emp); err != nil {
		return nil, err
	}

	a.log.Info("сотрудник обновлен", "emp_id", emp.EmpID)
	return emp, nil
}

// DeleteEmployee удаляет сотрудника и все его записи посещений.
// Требует административной сессии.
func (a *App) DeleteEmployee(empID string) error {
	if !a.session.IsAdmin() {
		return ErrAdminRequired
	}

	if err := a.storage.DeleteEmployee(strings.TrimSpace(empID)); err != nil {
		return err
	}

	a.log.Info("сотрудник удален", "emp_id", empID)
	return nil
}

// ListEmployees возвращает всех сотрудников
func (a *App) ListEmployees() ([]*LocalEmployee, error) {
	return a.storage.ListEmployees()
}

// GetEmployee возвращает сотрудника по табельному номеру
func (a *App) GetEmployee(empID string) (*LocalEmployee, error) {
	return a.storage.GetEmployeeByEmpID(strings.TrimSpace(empID))
}

// ListEntries возвращает записи посещений по фильтру
func (a *App) ListEntries(filter *EntryFilter) ([]*LocalEntry, error) {
	return a.storage.ListEntries(filter)
}

// TodayEntries возвращает записи посещений за сегодня
func (a *App) TodayEntries() ([]*LocalEntry, error) {
	today := time.Now().Format(attendance.DateLayout)
	return a.storage.ListEntries(&EntryFilter{Date: today})
}

// Sync запускает проход синхронизации
func (a *App) Sync(ctx context.Context) (*SyncResult, error) {
	return a.sync.Sync(ctx)
}

// PendingCount возвращает число записей, ожидающих отправки
func (a *App) PendingCount() (int, error) {
	return a.sync.PendingCount()
}

// LastSyncTime возвращает время последней синхронизации
func (a *App) LastSyncTime() time.Time {
	return a.sync.GetLastSyncTime()
}

// SyncLogs возвращает последние записи журнала синхронизаций
func (a *App) SyncLogs(limit int) ([]*SyncLogEntry, error) {
	return a.storage.ListSyncLogs(limit)
}

// Stats собирает показатели панели за сегодня
func (a *App) Stats() (*DashboardStats, error) {
	today := time.Now().Format(attendance.DateLayout)
	return a.storage.Stats(today)
}

// CheckConnection проверяет доступность сервера
func (a *App) CheckConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.httpClient.HealthCheck(ctx)
}

// Online сообщает последнее известное состояние соединения
func (a *App) Online() bool {
	return a.netmon.Online()
}

// Session возвращает менеджер административной сессии
func (a *App) Session() *Session {
	return a.session
}

// Close освобождает ресурсы приложения
func (a *App) Close() error {
	return a.storage.Close()
}

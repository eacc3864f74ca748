//Приемная сторона синхронизации киосков учета рабочего времени:
//прием сотрудников и записей посещений по натуральным ключам;
//выдача полного набора данных для дозагрузки на устройства.

//GET /api/health       # Проверка доступности (публичный)
//PUT /api/employees    # Вставка/обновление сотрудника по emp_id
//GET /api/employees    # Список сотрудников
//PUT /api/attendance   # Вставка/обновление записи по (emp_id, attendance_date)
//GET /api/attendance   # Список записей посещений

package api

import (
	attendanceAPI "tabelkeeper/internal/app/server/api/http/attendance"
	employeeAPI "tabelkeeper/internal/app/server/api/http/employee"
	healthAPI "tabelkeeper/internal/app/server/api/http/health"
	"tabelkeeper/internal/app/server/api/http/middleware"
	"tabelkeeper/internal/app/server/api/http/middleware/logger"
	"tabelkeeper/internal/domain/attendance"
	"tabelkeeper/internal/domain/employee"
	"tabelkeeper/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health     *healthAPI.Handler
	Employee   *employeeAPI.Handler
	Attendance *attendanceAPI.Handler
}

// New создает *chi.Mux с ВСЕМИ операциями через huma.Register
func New(storage *postgres.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("Tabelkeeper API", "1.0.0")

	API := humachi.New(mux, config)

	h := handlers(storage, log)
	h.Health.SetupRoutes(API)
	h.Employee.SetupRoutes(API)
	h.Attendance.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	employeeRepo := postgres.NewEmployeeRepository(storage, log)
	employeeService := employee.NewService(employeeRepo, log)
	middlewares.Add(loggerMW.Middleware())
	employeeHandler := employeeAPI.NewHandler(employeeService, log, middlewares.GetAllAndClear())

	attendanceRepo := postgres.NewAttendanceRepository(storage, log)
	attendanceService := attendance.NewService(attendanceRepo, log)
	middlewares.Add(loggerMW.Middleware())
	attendanceHandler := attendanceAPI.NewHandler(attendanceService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:     healthHandler,
		Employee:   employeeHandler,
		Attendance: attendanceHandler,
	}
}

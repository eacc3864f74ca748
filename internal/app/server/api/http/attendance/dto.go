package attendance

import (
	"time"

	"tabelkeeper/internal/domain/attendance"
)

type upsertInput struct {
	Body request
}

type upsertOutput struct {
	Body response
}

type listOutput struct {
	Body listResponse
}

type request struct {
	EmpID          string     `json:"emp_id" doc:"Табельный номер сотрудника" minLength:"1"`
	AttendanceDate string     `json:"attendance_date" doc:"Дата в формате YYYY-MM-DD" pattern:"^\\d{4}-\\d{2}-\\d{2}$"`
	LoginTime      time.Time  `json:"login_time" doc:"Время прихода"`
	LogoutTime     *time.Time `json:"logout_time,omitempty" doc:"Время ухода"`
	WorkingMinutes *int       `json:"working_minutes,omitempty" doc:"Отработанные минуты"`
	DeviceID       string     `json:"device_id,omitempty" doc:"Устройство, создавшее запись"`
	UpdatedAt      time.Time  `json:"updated_at,omitempty" doc:"Момент последнего изменения на устройстве"`
}

type response struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type listResponse struct {
	Entries []*attendance.Entry `json:"entries"`
}

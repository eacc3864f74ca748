package attendance

import "time"

// DateLayout — формат календарной даты, входящей в натуральный ключ записи.
const DateLayout = "2006-01-02"

// DeviceCloud — значение device_id для записей, пришедших из облака
// без собственного идентификатора устройства.
const DeviceCloud = "cloud"

// Entry — запись о посещении в облачном хранилище.
// Натуральный ключ — пара (emp_id, attendance_date): не больше одной
// записи на сотрудника в календарный день.
type Entry struct {
	ID             string     `json:"id,omitempty" doc:"Идентификатор, присвоенный сервером"`
	EmpID          string     `json:"emp_id" doc:"Табельный номер сотрудника"`
	AttendanceDate string     `json:"attendance_date" doc:"Дата в формате YYYY-MM-DD"`
	LoginTime      time.Time  `json:"login_time" doc:"Время прихода"`
	LogoutTime     *time.Time `json:"logout_time,omitempty" doc:"Время ухода; пусто — смена открыта"`
	WorkingMinutes *int       `json:"working_minutes,omitempty" doc:"Отработанные минуты, заполняется при уходе"`
	DeviceID       string     `json:"device_id,omitempty" doc:"Устройство, создавшее запись"`
	SyncedAt       *time.Time `json:"synced_at,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Closed сообщает, закрыта ли смена (проставлено время ухода).
func (e *Entry) Closed() bool {
	return e.LogoutTime != nil
}

// Minutes вычисляет отработанные минуты между приходом и уходом,
// округление вниз до целой минуты.
func Minutes(login, logout time.Time) int {
	return int(logout.Sub(login) / time.Minute)
}

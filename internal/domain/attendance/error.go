package attendance

import "errors"

var (
	ErrEntryNotFound = errors.New("attendance entry not found")
	ErrEntryClosed   = errors.New("attendance entry already closed")
	ErrEmpIDRequired = errors.New("emp_id is required")
	ErrBadDate       = errors.New("attendance_date must be YYYY-MM-DD")
	ErrLoginRequired = errors.New("login_time is required")
)

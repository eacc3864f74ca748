package client

import "errors"

var (
	// ErrEmployeeNotFound - сотрудник с таким табельным номером не найден
	ErrEmployeeNotFound = errors.New("сотрудник не найден")

	// ErrEntryNotFound - запись посещения не найдена
	ErrEntryNotFound = errors.New("запись посещения не найдена")

	// ErrShiftClosed - смена за этот день уже закрыта
	ErrShiftClosed = errors.New("смена уже закрыта")

	// ErrAdminRequired - операция требует административной сессии
	ErrAdminRequired = errors.New("требуется вход администратора")
)

// DuplicateError - нарушение уникальности натурального ключа
type DuplicateError struct {
	Key string
}

func (e *DuplicateError) Error() string {
	return "запись уже существует: " + e.Key
}

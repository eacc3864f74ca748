package attendance

import "context"

// Repository — хранилище записей посещений на стороне сервера
type Repository interface {
	// Upsert вставляет или обновляет запись по составному натуральному ключу
	// (emp_id, attendance_date) и возвращает сохраненную запись с серверным
	// идентификатором.
	Upsert(ctx context.Context, entry *Entry) (*Entry, error)

	// List возвращает все записи посещений.
	List(ctx context.Context) ([]*Entry, error)
}

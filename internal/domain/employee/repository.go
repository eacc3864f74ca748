package employee

import "context"

// Repository — хранилище сотрудников на стороне сервера
type Repository interface {
	// Upsert вставляет или обновляет сотрудника по натуральному ключу emp_id
	// и возвращает сохраненную запись с серверным идентификатором.
	Upsert(ctx context.Context, emp *Employee) (*Employee, error)

	// List возвращает всех сотрудников.
	List(ctx context.Context) ([]*Employee, error)
}

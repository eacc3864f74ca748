package attendance

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) upsertOp() huma.Operation {
	return huma.Operation{
		OperationID: "attendance-upsert",
		Method:      http.MethodPut,
		Path:        "/api/attendance",
		Summary:     "Сохранить запись посещения",
		Description: "Вставляет или обновляет запись по паре (emp_id, attendance_date).",
		Tags:        []string{"attendance"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "attendance-list",
		Method:      http.MethodGet,
		Path:        "/api/attendance",
		Summary:     "Список записей посещений",
		Tags:        []string{"attendance"},
		Middlewares: h.middleware,
	}
}

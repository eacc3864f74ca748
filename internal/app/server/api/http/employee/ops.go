package employee

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) upsertOp() huma.Operation {
	return huma.Operation{
		OperationID: "employees-upsert",
		Method:      http.MethodPut,
		Path:        "/api/employees",
		Summary:     "Сохранить сотрудника",
		Description: "Вставляет или обновляет сотрудника по табельному номеру emp_id.",
		Tags:        []string{"employees"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "employees-list",
		Method:      http.MethodGet,
		Path:        "/api/employees",
		Summary:     "Список сотрудников",
		Tags:        []string{"employees"},
		Middlewares: h.middleware,
	}
}

package employee

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"tabelkeeper/internal/domain/employee"
)

type Handler struct {
	service    employee.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service employee.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.upsertOp(), h.upsert)
	huma.Register(api, h.listOp(), h.list)
}

func (h *Handler) upsert(ctx context.Context, input *upsertInput) (*upsertOutput, error) {
	emp := &employee.Employee{
		EmpID:       input.Body.EmpID,
		Name:        input.Body.Name,
		Department:  input.Body.Department,
		Designation: input.Body.Designation,
		CreatedAt:   input.Body.CreatedAt,
		UpdatedAt:   input.Body.UpdatedAt,
	}

	stored, err := h.service.Upsert(ctx, emp)
	if err != nil {
		if errors.Is(err, employee.ErrEmpIDRequired) || errors.Is(err, employee.ErrNameRequired) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return &upsertOutput{
			Body: response{Status: "Error"},
		}, err
	}

	return &upsertOutput{
		Body: response{
			ID:     stored.ID,
			Status: "Ok",
		},
	}, nil
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	employees, err := h.service.List(ctx)
	if err != nil {
		return nil, err
	}

	if employees == nil {
		employees = []*employee.Employee{}
	}

	return &listOutput{
		Body: listResponse{Employees: employees},
	}, nil
}

package attendance

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"tabelkeeper/internal/domain/attendance"
)

type Handler struct {
	service    attendance.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service attendance.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
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
	entry := &attendance.Entry{
		EmpID:          input.Body.EmpID,
		AttendanceDate: input.Body.AttendanceDate,
		LoginTime:      input.Body.LoginTime,
		LogoutTime:     input.Body.LogoutTime,
		WorkingMinutes: input.Body.WorkingMinutes,
		DeviceID:       input.Body.DeviceID,
		UpdatedAt:      input.Body.UpdatedAt,
	}

	stored, err := h.service.Upsert(ctx, entry)
	if err != nil {
		if errors.Is(err, attendance.ErrEmpIDRequired) ||
			errors.Is(err, attendance.ErrBadDate) ||
			errors.Is(err, attendance.ErrLoginRequired) {
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
	entries, err := h.service.List(ctx)
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []*attendance.Entry{}
	}

	return &listOutput{
		Body: listResponse{Entries: entries},
	}, nil
}

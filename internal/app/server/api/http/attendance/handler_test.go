package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tabelkeeper/internal/domain/attendance"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Upsert(ctx context.Context, entry *attendance.Entry) (*attendance.Entry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attendance.Entry), args.Error(1)
}

func (m *MockService) List(ctx context.Context) ([]*attendance.Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*attendance.Entry), args.Error(1)
}

func TestHandler_Upsert(t *testing.T) {
	login := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, nil, nil)

		stored := &attendance.Entry{ID: "e1", EmpID: "EMP001", AttendanceDate: "2025-03-14", LoginTime: login}
		svc.On("Upsert", mock.Anything, mock.AnythingOfType("*attendance.Entry")).Return(stored, nil)

		input := &upsertInput{}
		input.Body.EmpID = "EMP001"
		input.Body.AttendanceDate = "2025-03-14"
		input.Body.LoginTime = login
		input.Body.DeviceID = "kiosk-1"

		output, err := h.upsert(context.Background(), input)

		assert.NoError(t, err)
		assert.Equal(t, "Ok", output.Body.Status)
		assert.Equal(t, "e1", output.Body.ID)
		svc.AssertExpectations(t)
	})

	t.Run("BadDate_422", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, nil, nil)

		svc.On("Upsert", mock.Anything, mock.Anything).Return(nil, attendance.ErrBadDate)

		input := &upsertInput{}
		input.Body.EmpID = "EMP001"
		input.Body.AttendanceDate = "14.03.2025"
		input.Body.LoginTime = login

		output, err := h.upsert(context.Background(), input)

		assert.Error(t, err)
		assert.Nil(t, output)
	})

	t.Run("ServiceError", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, nil, nil)

		svc.On("Upsert", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		input := &upsertInput{}
		input.Body.EmpID = "EMP001"
		input.Body.AttendanceDate = "2025-03-14"
		input.Body.LoginTime = login

		output, err := h.upsert(context.Background(), input)

		assert.Error(t, err)
		assert.Equal(t, "Error", output.Body.Status)
	})
}

func TestHandler_List(t *testing.T) {
	t.Run("Empty_NotNil", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, nil, nil)

		svc.On("List", mock.Anything).Return([]*attendance.Entry(nil), nil)

		output, err := h.list(context.Background(), nil)

		assert.NoError(t, err)
		assert.NotNil(t, output.Body.Entries)
		assert.Len(t, output.Body.Entries, 0)
	})
}

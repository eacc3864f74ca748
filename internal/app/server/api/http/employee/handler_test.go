package employee

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tabelkeeper/internal/domain/employee"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Upsert(ctx context.Context, emp *employee.Employee) (*employee.Employee, error) {
	args := m.Called(ctx, emp)
	// Безопасное приведение nil к указателю
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*employee.Employee), args.Error(1)
}

func (m *MockService) List(ctx context.Context) ([]*employee.Employee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*employee.Employee), args.Error(1)
}

func TestHandler_Upsert(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, nil, nil)

		stored := &employee.Employee{ID: "a1b2", EmpID: "EMP001", Name: "Ivan"}
		svc.On("Upsert", mock.Anything, mock.AnythingOfType("*employee.Employee")).Return(stored, nil)

		input := &upsertInput{}
		input.Body.EmpID = "EMP001"
		input.Body.Name = "Ivan"

		output, err := h.upsert(context.Background(), input)

		assert.NoError(t, err)
		assert.Equal(t, "Ok", output.Body.Status)
		assert.Equal(t, "a1b2", output.Body.ID)
		svc.AssertExpectations(t)
	})

	t.Run("ValidationError_422", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, nil, nil)

		svc.On("Upsert", mock.Anything, mock.Anything).Return(nil, employee.ErrEmpIDRequired)

		input := &upsertInput{}
		input.Body.Name = "Ivan"

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
		input.Body.Name = "Ivan"

		output, err := h.upsert(context.Background(), input)

		assert.Error(t, err)
		assert.Equal(t, "Error", output.Body.Status)
	})
}

func TestHandler_List(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, nil, nil)

		svc.On("List", mock.Anything).Return([]*employee.Employee{
			{ID: "a1", EmpID: "EMP001", Name: "Ivan"},
			{ID: "a2", EmpID: "EMP002", Name: "Olga"},
		}, nil)

		output, err := h.list(context.Background(), nil)

		assert.NoError(t, err)
		assert.Len(t, output.Body.Employees, 2)
	})

	t.Run("Empty_NotNil", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, nil, nil)

		svc.On("List", mock.Anything).Return([]*employee.Employee(nil), nil)

		output, err := h.list(context.Background(), nil)

		assert.NoError(t, err)
		assert.NotNil(t, output.Body.Employees)
		assert.Len(t, output.Body.Employees, 0)
	})
}

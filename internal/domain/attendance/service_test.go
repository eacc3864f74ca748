package attendance

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Upsert(ctx context.Context, entry *Entry) (*Entry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Entry), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]*Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Entry), args.Error(1)
}

func newTestService(repo Repository) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestService_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("valid entry", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		entry := &Entry{
			EmpID:          "EMP-001",
			AttendanceDate: "2025-03-14",
			LoginTime:      time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
			DeviceID:       "kiosk-1",
		}
		stored := &Entry{ID: "e1", EmpID: "EMP-001", AttendanceDate: "2025-03-14"}

		repo.On("Upsert", ctx, entry).Return(stored, nil)

		got, err := svc.Upsert(ctx, entry)
		require.NoError(t, err)
		assert.Equal(t, "e1", got.ID)
		require.NotNil(t, entry.SyncedAt, "synced_at must be stamped on accept")
		repo.AssertExpectations(t)
	})

	t.Run("bad date", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		_, err := svc.Upsert(ctx, &Entry{
			EmpID:          "EMP-001",
			AttendanceDate: "14.03.2025",
			LoginTime:      time.Now(),
		})
		assert.ErrorIs(t, err, ErrBadDate)
		repo.AssertNotCalled(t, "Upsert")
	})

	t.Run("missing login time", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		_, err := svc.Upsert(ctx, &Entry{EmpID: "EMP-001", AttendanceDate: "2025-03-14"})
		assert.ErrorIs(t, err, ErrLoginRequired)
	})

	t.Run("missing emp_id", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		_, err := svc.Upsert(ctx, &Entry{AttendanceDate: "2025-03-14", LoginTime: time.Now()})
		assert.ErrorIs(t, err, ErrEmpIDRequired)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	repo := new(MockRepository)
	svc := newTestService(repo)

	want := []*Entry{
		{ID: "1", EmpID: "EMP-001", AttendanceDate: "2025-03-14"},
	}
	repo.On("List", ctx).Return(want, nil)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMinutes(t *testing.T) {
	login := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	logout := time.Date(2025, 3, 14, 17, 30, 0, 0, time.UTC)
	assert.Equal(t, 510, Minutes(login, logout))

	// округление вниз до целой минуты
	logout = login.Add(59 * time.Second)
	assert.Equal(t, 0, Minutes(login, logout))
}

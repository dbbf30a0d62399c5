package shifts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/internal/infra/storage/memory"
	"github.com/Endo1018/salon-reservation-sub000/pkg/logger"
)

type roster map[string]bool

func (r roster) InRoster(staffID string) bool { return r[staffID] }

type failingRepo struct{}

func (failingRepo) Upsert(context.Context, *domain.Shift) error { return errors.New("disk full") }
func (failingRepo) ListByDate(context.Context, time.Time) ([]*domain.Shift, error) {
	return nil, errors.New("disk full")
}

func TestService_SetShift(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	store := memory.NewStore()
	svc := NewService(store.Shifts(loc), roster{"anna": true, "binh": true}, loc, logger.NewNop())
	ctx := context.Background()

	// 20:00 UTC уже следующий день по времени салона
	date := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

	resp, err := svc.SetShift(ctx, &SetShiftRequest{StaffID: "anna", Date: date, Status: "leave"})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", resp.Date)

	// Повторная отметка заменяет предыдущую
	_, err = svc.SetShift(ctx, &SetShiftRequest{StaffID: "anna", Date: date, Status: "working"})
	require.NoError(t, err)
	_, err = svc.SetShift(ctx, &SetShiftRequest{StaffID: "binh", Date: date, Status: "off"})
	require.NoError(t, err)

	list, err := svc.ListByDate(ctx, time.Date(2025, 6, 2, 12, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, []ShiftResponse{
		{StaffID: "anna", Date: "2025-06-02", Status: "working"},
		{StaffID: "binh", Date: "2025-06-02", Status: "off"},
	}, list)
}

func TestService_SetShift_Rejects(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Shifts(time.UTC), roster{"anna": true}, time.UTC, logger.NewNop())
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.SetShift(context.Background(), &SetShiftRequest{StaffID: "anna", Date: date, Status: "sick"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.SetShift(context.Background(), &SetShiftRequest{StaffID: "zoe", Date: date, Status: "off"})
	assert.ErrorIs(t, err, ErrStaffNotFound)

	_, err = svc.SetShift(context.Background(), &SetShiftRequest{StaffID: "anna", Status: "off"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	failing := NewService(failingRepo{}, roster{"anna": true}, time.UTC, logger.NewNop())
	_, err = failing.SetShift(context.Background(), &SetShiftRequest{StaffID: "anna", Date: date, Status: "off"})
	assert.ErrorIs(t, err, ErrInternal)
}

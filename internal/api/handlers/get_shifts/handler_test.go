package get_shifts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/internal/infra/storage/memory"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/shifts"
	"github.com/Endo1018/salon-reservation-sub000/pkg/logger"
)

type roster []string

func (r roster) InRoster(id string) bool {
	for _, s := range r {
		if s == id {
			return true
		}
	}
	return false
}

type failingService struct{}

func (failingService) ListByDate(context.Context, time.Time) ([]shifts.ShiftResponse, error) {
	return nil, errors.New("storage down")
}

func TestHandler(t *testing.T) {
	log := logger.NewNop()
	loc := time.FixedZone("ICT", 7*60*60)
	store := memory.NewStore()
	repo := store.Shifts(loc)

	date := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)
	require.NoError(t, repo.Upsert(context.Background(), &domain.Shift{StaffID: "binh", Date: date, Status: domain.ShiftOff}))
	require.NoError(t, repo.Upsert(context.Background(), &domain.Shift{StaffID: "anna", Date: date, Status: domain.ShiftLeave}))
	require.NoError(t, repo.Upsert(context.Background(), &domain.Shift{StaffID: "anna", Date: date.AddDate(0, 0, 1), Status: domain.ShiftHoliday}))

	h := NewHandler(shifts.NewService(repo, roster{"anna", "binh"}, loc, log), loc, log)

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/staff/shifts?date=2025-06-02", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body []shifts.ShiftResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.ElementsMatch(t, []shifts.ShiftResponse{
		{StaffID: "anna", Date: "2025-06-02", Status: "leave"},
		{StaffID: "binh", Date: "2025-06-02", Status: "off"},
	}, body)
}

func TestHandler_Errors(t *testing.T) {
	log := logger.NewNop()
	store := memory.NewStore()
	h := NewHandler(shifts.NewService(store.Shifts(time.UTC), roster{"anna"}, time.UTC, log), time.UTC, log)

	for _, q := range []string{"", "?date=02.06.2025"} {
		w := httptest.NewRecorder()
		h.Handle(w, httptest.NewRequest(http.MethodGet, "/staff/shifts"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}

	w := httptest.NewRecorder()
	NewHandler(failingService{}, time.UTC, log).Handle(w, httptest.NewRequest(http.MethodGet, "/staff/shifts?date=2025-06-02", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

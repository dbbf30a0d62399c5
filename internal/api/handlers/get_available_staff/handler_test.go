package get_available_staff

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/internal/infra/storage/memory"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/availability"
	getAvailableStaff "github.com/Endo1018/salon-reservation-sub000/internal/usecase/get_available_staff"
	"github.com/Endo1018/salon-reservation-sub000/pkg/logger"
	"github.com/Endo1018/salon-reservation-sub000/pkg/ptr"
)

func TestHandler(t *testing.T) {
	log := logger.NewNop()
	store := memory.NewStore()
	repo := store.Bookings()

	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	_, err := repo.Create(context.Background(), &domain.Booking{
		ID: "b1", ResourceID: "hs-1", Category: "head-spa", StaffID: ptr.Ptr("anna"),
		StartAt: start, EndAt: start.Add(time.Hour), Status: domain.StatusConfirmed,
	})
	require.NoError(t, err)

	oracle := availability.NewService(repo, store.Shifts(time.UTC), []string{"anna", "binh"}, time.UTC, log)
	h := NewHandler(getAvailableStaff.NewUseCase(oracle, time.UTC, log), log)

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/staff/available?date=2025-06-02&start=10:30&duration=30", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body AvailableStaffResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, []string{"binh"}, body.StaffIDs)
	assert.Equal(t, "11:00", body.EndTime)

	// Граница: начало ровно в конце занятого интервала
	w = httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/staff/available?date=2025-06-02&start=11:00&duration=30", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, []string{"anna", "binh"}, body.StaffIDs)
}

func TestHandler_InvalidParams(t *testing.T) {
	log := logger.NewNop()
	store := memory.NewStore()
	oracle := availability.NewService(store.Bookings(), store.Shifts(time.UTC), []string{"anna"}, time.UTC, log)
	h := NewHandler(getAvailableStaff.NewUseCase(oracle, time.UTC, log), log)

	for _, q := range []string{
		"",
		"?date=2025-06-02&start=10:00",
		"?date=2025-06-02&start=10:00&duration=abc",
		"?date=2025-06-02&start=10:00&duration=0",
		"?date=2025-06-02&start=7pm&duration=30",
	} {
		w := httptest.NewRecorder()
		h.Handle(w, httptest.NewRequest(http.MethodGet, "/staff/available"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

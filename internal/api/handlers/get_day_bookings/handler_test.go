package get_day_bookings

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
	"github.com/Endo1018/salon-reservation-sub000/internal/service/bookings"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/bookings/models"
	"github.com/Endo1018/salon-reservation-sub000/pkg/logger"
)

func TestHandler_UsesSalonDay(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	store := memory.NewStore()
	repo := store.Bookings()

	// 23:30 UTC 1 июня = 06:30 2 июня по времени салона
	early := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)
	late := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC) // 01:00 3 июня

	for _, b := range []*domain.Booking{
		{ID: "early", ResourceID: "hs-1", Category: "head-spa", StartAt: early, EndAt: early.Add(time.Hour), Status: domain.StatusConfirmed},
		{ID: "late", ResourceID: "hs-1", Category: "head-spa", StartAt: late, EndAt: late.Add(time.Hour), Status: domain.StatusConfirmed},
	} {
		_, err := repo.Create(context.Background(), b)
		require.NoError(t, err)
	}

	svc := bookings.NewService(repo, memory.NewTxManager(store), loc, logger.NewNop())
	h := NewHandler(svc, loc, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/bookings?date=2025-06-02", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body models.BookingListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body.Bookings, 1)
	assert.Equal(t, "early", body.Bookings[0].ID)
	assert.Equal(t, "06:30", body.Bookings[0].StartTime)
}

func TestHandler_InvalidParams(t *testing.T) {
	store := memory.NewStore()
	svc := bookings.NewService(store.Bookings(), memory.NewTxManager(store), time.UTC, logger.NewNop())
	h := NewHandler(svc, time.UTC, logger.NewNop())

	for _, q := range []string{"", "?date=2025/06/02", "?date=2025-06-02&includeInactive=maybe", "?date=2025-06-02&status=done"} {
		w := httptest.NewRecorder()
		h.Handle(w, httptest.NewRequest(http.MethodGet, "/bookings"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

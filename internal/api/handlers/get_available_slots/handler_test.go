package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	getAvailableSlots "github.com/Endo1018/salon-reservation-sub000/internal/usecase/get_available_slots"
	"github.com/Endo1018/salon-reservation-sub000/pkg/logger"
)

type useCaseStub struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (s *useCaseStub) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	s.got = req
	return s.resp, s.err
}

func get(stub *useCaseStub, url string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/services/{serviceId}/slots", NewHandler(stub, logger.NewNop()).Handle)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestHandler(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	stub := &useCaseStub{resp: &getAvailableSlots.Response{
		Date:      date,
		ServiceID: "combo",
		UnitPrice: decimal.RequireFromString("450000"),
		Slots: []domain.AvailableSlot{
			{StartTime: "10:00", DurationMinutes: 90, AvailableSpots: 1, TotalSpots: 2, Order: domain.OrderSwapped},
		},
	}}

	w := get(stub, "/services/combo/slots?date=2025-06-02")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "combo", stub.got.ServiceID)

	var body AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body.Slots, 1)
	assert.Equal(t, "swapped", body.Slots[0].Order)
	assert.Equal(t, "450000.00", body.Price)
	assert.InDelta(t, 50.0, body.Slots[0].OccupancyRate, 1e-9)
}

func TestHandler_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, get(&useCaseStub{}, "/services/x/slots").Code)
	assert.Equal(t, http.StatusBadRequest, get(&useCaseStub{}, "/services/x/slots?date=2.6.2025").Code)
	assert.Equal(t, http.StatusNotFound,
		get(&useCaseStub{err: getAvailableSlots.ErrServiceNotFound}, "/services/x/slots?date=2025-06-02").Code)
	assert.Equal(t, http.StatusBadRequest,
		get(&useCaseStub{err: getAvailableSlots.ErrDateTooFarInFuture}, "/services/x/slots?date=2030-06-02").Code)
	assert.Equal(t, http.StatusInternalServerError,
		get(&useCaseStub{err: getAvailableSlots.ErrInternal}, "/services/x/slots?date=2025-06-02").Code)
}

package create_combo_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/bookings/models"
	createBooking "github.com/Endo1018/salon-reservation-sub000/internal/usecase/create_booking"
	"github.com/Endo1018/salon-reservation-sub000/pkg/logger"
	"github.com/Endo1018/salon-reservation-sub000/pkg/ptr"
)

type useCaseStub struct {
	got  *createBooking.ComboRequest
	resp *createBooking.Response
	err  error
}

func (s *useCaseStub) ExecuteCombo(_ context.Context, req *createBooking.ComboRequest) (*createBooking.Response, error) {
	s.got = req
	return s.resp, s.err
}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodPost, "/api/v1/bookings/combo", strings.NewReader(body)))
	return w
}

func TestHandler_Created(t *testing.T) {
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	link := ptr.Ptr("link-1")
	stub := &useCaseStub{resp: &createBooking.Response{
		ComboLinkID: link,
		Order:       domain.OrderSwapped,
		Bookings: []*domain.Booking{
			{ID: "l1", ResourceID: "ar-1", Category: "aroma-room", StartAt: start, EndAt: start.Add(60 * time.Minute),
				Status: domain.StatusConfirmed, ComboLinkID: link},
			{ID: "l2", ResourceID: "hs-1", Category: "head-spa", StartAt: start.Add(60 * time.Minute), EndAt: start.Add(120 * time.Minute),
				Status: domain.StatusConfirmed, ComboLinkID: link, IsPrimaryLeg: true},
		},
	}}
	h := NewHandler(stub, time.UTC, logger.NewNop())

	w := post(h, `{"serviceId":"combo","date":"2025-06-02","startTime":"10:00","staffIdLegA":"anna"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, domain.OrderAuto, stub.got.Order)
	assert.Equal(t, "anna", *stub.got.StaffA)
	assert.Nil(t, stub.got.StaffB)

	var body models.GroupResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "swapped", body.Order)
	assert.Equal(t, "link-1", *body.ComboLinkID)
	require.Len(t, body.Bookings, 2)
	assert.True(t, body.Bookings[1].IsPrimaryLeg)
}

func TestHandler_Errors(t *testing.T) {
	iv := domain.NewInterval(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), 60)
	valid := `{"serviceId":"combo","date":"2025-06-02","startTime":"10:00"}`

	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"bad order", `{"serviceId":"combo","date":"2025-06-02","startTime":"10:00","order":"sideways"}`, nil, http.StatusBadRequest},
		{"unknown field", `{"serviceId":"combo","legs":2}`, nil, http.StatusBadRequest},
		{"both orders fail", valid, &domain.NoResourceAvailableError{Category: "head-spa", Interval: iv}, http.StatusConflict},
		{"single service", valid, createBooking.ErrWrongServiceKind, http.StatusBadRequest},
		{"staff not found", valid, createBooking.ErrStaffNotFound, http.StatusNotFound},
		{"internal", valid, createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&useCaseStub{err: tt.err}, time.UTC, logger.NewNop())
			assert.Equal(t, tt.status, post(h, tt.body).Code)
		})
	}
}

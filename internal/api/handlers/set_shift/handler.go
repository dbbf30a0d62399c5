package set_shift

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Endo1018/salon-reservation-sub000/internal/api/handlers"
	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/shifts"
)

const (
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStatus      = "некорректный статус смены, ожидается working, off, leave или holiday"
	msgStaffNotFound      = "сотрудник не найден"
)

// SetShiftRequest HTTP request model
type SetShiftRequest struct {
	Status string `json:"status"`
}

type Handler struct {
	service  ShiftService
	location *time.Location
	logger   Logger
}

func NewHandler(service ShiftService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle PUT /api/v1/staff/{staffId}/shifts/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	staffID := vars["staffId"]

	date, err := time.ParseInLocation(domain.DateFormat, vars["date"], h.location)
	if err != nil {
		h.logger.Warn("PUT /staff/{id}/shifts/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req SetShiftRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /staff/{id}/shifts/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetShift(r.Context(), &shifts.SetShiftRequest{
		StaffID: staffID,
		Date:    date,
		Status:  req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, shifts.ErrStaffNotFound):
			h.logger.Warn("PUT /staff/{id}/shifts/{date} - Staff not found: staff_id=%s", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, shifts.ErrInvalidStatus), errors.Is(err, shifts.ErrInvalidInput):
			h.logger.Warn("PUT /staff/{id}/shifts/{date} - Invalid status: staff_id=%s, status=%s", staffID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("PUT /staff/{id}/shifts/{date} - Failed to set shift: staff_id=%s, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /staff/{id}/shifts/{date} - Shift set: staff_id=%s, date=%s, status=%s",
		result.StaffID, result.Date, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}

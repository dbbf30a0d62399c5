package clear_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/api/handlers"
	"github.com/Endo1018/salon-reservation-sub000/internal/api/middleware"
	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/bookings"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/bookings/models"
)

const (
	msgInvalidParams = "некорректный диапазон дат, ожидаются from и to в формате YYYY-MM-DD, from < to"
)

// ClearResponse результат очистки
type ClearResponse struct {
	Deleted int64 `json:"deleted"`
}

type Handler struct {
	service  BookingService
	location *time.Location
	logger   Logger
}

func NewHandler(service BookingService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle DELETE /api/v1/bookings?from=YYYY-MM-DD&to=YYYY-MM-DD
// Удаляет бронирования, начинающиеся в днях [from, to), вместе с их комбо-группами
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	from, errFrom := time.ParseInLocation(domain.DateFormat, r.URL.Query().Get("from"), h.location)
	to, errTo := time.ParseInLocation(domain.DateFormat, r.URL.Query().Get("to"), h.location)
	if errFrom != nil || errTo != nil {
		h.logger.Warn("DELETE /bookings - Invalid range: from=%q to=%q", r.URL.Query().Get("from"), r.URL.Query().Get("to"))
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	deleted, err := h.service.ClearRange(r.Context(), &models.ClearRangeRequest{From: from, To: to})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("DELETE /bookings - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("DELETE /bookings - Failed to clear bookings: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /bookings - Cleared %d bookings from=%s to=%s by user=%s",
		deleted, from.Format(domain.DateFormat), to.Format(domain.DateFormat), userID)
	handlers.RespondJSON(w, http.StatusOK, ClearResponse{Deleted: deleted})
}

package edit_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Endo1018/salon-reservation-sub000/internal/api/handlers"
	editBooking "github.com/Endo1018/salon-reservation-sub000/internal/usecase/edit_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgInvalidOrder       = "некорректный порядок этапов, ожидается auto, forward или swapped"
	msgNotFound           = "бронирование не найдено"
	msgCannotEdit         = "отменённое бронирование нельзя изменить"
	msgServiceNotFound    = "услуга не найдена"
	msgStaffNotFound      = "сотрудник не найден"
	msgUnsupportedEdit    = "такое изменение группы не поддерживается"
	msgInvalidData        = "некорректные данные изменения"
	msgSlotConflict       = "интервал занят параллельным бронированием, повторите попытку"
)

type Handler struct {
	useCase  EditBookingUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase EditBookingUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}
// Меняет время, длительность, услугу, сотрудников или порядок этапов.
// Группа пересчитывается целиком: либо все этапы переезжают, либо ничего не меняется.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	if bookingID == "" {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req EditBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Failed to parse request: %v", err)
		switch {
		case errors.Is(err, errInvalidTime):
			handlers.RespondBadRequest(w, msgInvalidTime)
		case errors.Is(err, errInvalidOrder):
			handlers.RespondBadRequest(w, msgInvalidOrder)
		default:
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Этап, который не удалось переместить: категория и интервал
		if handlers.RespondAllocationError(w, err, h.location) {
			h.logger.Warn("PATCH /bookings/{id} - Cannot reflow group: booking_id=%s, error=%v", bookingID, err)
			return
		}

		switch {
		case errors.Is(err, editBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, editBooking.ErrCannotEdit):
			h.logger.Warn("PATCH /bookings/{id} - Cannot edit: booking_id=%s", bookingID)
			handlers.RespondBadRequest(w, msgCannotEdit)

		case errors.Is(err, editBooking.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, editBooking.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, editBooking.ErrUnsupportedEdit):
			h.logger.Warn("PATCH /bookings/{id} - Unsupported edit: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgUnsupportedEdit)

		case errors.Is(err, editBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id} - Invalid data: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, editBooking.ErrSlotConflict):
			handlers.RespondConflict(w, msgSlotConflict)

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to edit booking: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id} - Booking edited: booking_id=%s, changed=%v, legs=%d",
		bookingID, result.Changed, len(result.Group))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, h.location))
}

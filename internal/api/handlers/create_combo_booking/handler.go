package create_combo_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/api/handlers"
	createBookingHandler "github.com/Endo1018/salon-reservation-sub000/internal/api/handlers/create_booking"
	createBooking "github.com/Endo1018/salon-reservation-sub000/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidOrder       = "некорректный порядок этапов, ожидается auto, forward или swapped"
	msgServiceNotFound    = "услуга не найдена"
	msgStaffNotFound      = "сотрудник не найден"
	msgNotCombo           = "услуга не является комбо, используйте /bookings"
	msgInvalidData        = "некорректные данные бронирования"
	msgSlotConflict       = "интервал занят параллельным бронированием, повторите попытку"
)

type Handler struct {
	useCase  CreateComboUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateComboUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/bookings/combo
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateComboRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/combo - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings/combo - Failed to parse request: %v", err)
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

	result, err := h.useCase.ExecuteCombo(r.Context(), useCaseReq)
	if err != nil {
		// Ошибка forward-попытки: категория и интервал этапа, который не поместился
		if handlers.RespondAllocationError(w, err, h.location) {
			h.logger.Warn("POST /bookings/combo - Cannot place combo: service_id=%s, error=%v", req.ServiceID, err)
			return
		}

		switch {
		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings/combo - Service not found: service_id=%s", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrStaffNotFound):
			h.logger.Warn("POST /bookings/combo - Staff not found: leg_a=%v, leg_b=%v", req.StaffIDLegA, req.StaffIDLegB)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createBooking.ErrWrongServiceKind):
			h.logger.Warn("POST /bookings/combo - Single service on combo endpoint: service_id=%s", req.ServiceID)
			handlers.RespondBadRequest(w, msgNotCombo)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/combo - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings/combo - Concurrent conflict: service_id=%s", req.ServiceID)
			handlers.RespondConflict(w, msgSlotConflict)

		default:
			h.logger.Error("POST /bookings/combo - Failed to create combo: service_id=%s, error=%v", req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := createBookingHandler.FromUseCaseResponse(result, h.location)

	h.logger.Info("POST /bookings/combo - Combo created successfully: link_id=%v, order=%s",
		response.ComboLinkID, result.Order)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

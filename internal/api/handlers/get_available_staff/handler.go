package get_available_staff

import (
	"errors"
	"net/http"

	"github.com/Endo1018/salon-reservation-sub000/internal/api/handlers"
	getAvailableStaff "github.com/Endo1018/salon-reservation-sub000/internal/usecase/get_available_staff"
)

const (
	msgInvalidParams = "ожидаются параметры date=YYYY-MM-DD, start=HH:MM и duration (минуты)"
)

type Handler struct {
	useCase GetAvailableStaffUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableStaffUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/available?date=&start=&duration=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	useCaseReq, err := ToUseCaseRequest(query.Get("date"), query.Get("start"), query.Get("duration"))
	if err != nil {
		h.logger.Warn("GET /staff/available - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableStaff.ErrInvalidInput):
			h.logger.Warn("GET /staff/available - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /staff/available - Failed to resolve staff: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/available - %d staff available on %s %s-%s",
		len(result.StaffIDs), query.Get("date"), result.StartTime, result.EndTime)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

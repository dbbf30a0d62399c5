package get_available_slots

import (
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	getAvailableSlots "github.com/Endo1018/salon-reservation-sub000/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date      string          `json:"date"`
	ServiceID string          `json:"serviceId"`
	Price     string          `json:"price"` // десятичная строка, без потери точности
	Slots     []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	AvailableSpots  int     `json:"availableSpots"`
	TotalSpots      int     `json:"totalSpots"`
	OccupancyRate   float64 `json:"occupancyRate"`   // проценты
	Order           string  `json:"order,omitempty"` // для комбо: порядок этапов, который поместится
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i := range resp.Slots {
		slot := &resp.Slots[i]
		slots[i] = AvailableSlot{
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
			AvailableSpots:  slot.AvailableSpots,
			TotalSpots:      slot.TotalSpots,
			OccupancyRate:   slot.OccupancyRate(),
			Order:           string(slot.Order),
		}
	}

	return &AvailableSlotsResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		ServiceID: resp.ServiceID,
		Price:     resp.UnitPrice.StringFixed(2),
		Slots:     slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров
func ToUseCaseRequest(serviceID, dateStr string) (*getAvailableSlots.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ServiceID: serviceID,
		Date:      date,
	}, nil
}

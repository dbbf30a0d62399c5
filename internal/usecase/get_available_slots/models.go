package get_available_slots

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID string    // ID услуги
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      time.Time              // Дата, на которую запрашивались слоты
	ServiceID string                 // ID услуги
	UnitPrice decimal.Decimal        // Цена услуги из каталога
	Slots     []domain.AvailableSlot // Список слотов в пределах рабочего дня
}

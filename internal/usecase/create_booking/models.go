package create_booking

import (
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

// SingleRequest модель запроса на создание одиночного бронирования
type SingleRequest struct {
	ServiceID    string           // ID услуги из каталога
	Date         time.Time        // Дата (без времени)
	StartTime    types.TimeString // Время начала по часовому поясу салона, "10:00"
	ResourceHint string           // Предпочтительный ресурс (опционально)
	StaffID      *string          // Сотрудник (опционально)
	ClientName   string
	Hold         bool // Создать как предварительную бронь
}

// ComboRequest модель запроса на создание комбо-бронирования
type ComboRequest struct {
	ServiceID    string
	Date         time.Time
	StartTime    types.TimeString
	StaffA       *string         // Сотрудник на этап A
	StaffB       *string         // Сотрудник на этап B
	Order        domain.LegOrder // Принудительный порядок этапов (опционально)
	ResourceHint string
	ClientName   string
	Hold         bool
}

// Response созданные бронирования в хронологическом порядке
type Response struct {
	Bookings []*domain.Booking
	// ComboLinkID и Order заполняются только для комбо
	ComboLinkID *string
	Order       domain.LegOrder
}

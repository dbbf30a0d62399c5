package availability

import (
	"context"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
)

// BookingReader источник бронирований для проверки пересечений.
// Реализации могут предфильтровать по диапазону в SQL; сервис всё равно
// перепроверяет каждую строку через domain.Overlaps.
type BookingReader interface {
	ListOverlapping(ctx context.Context, filter domain.OverlapFilter) ([]*domain.Booking, error)
}

// ShiftReader источник смен сотрудников
type ShiftReader interface {
	ListByDate(ctx context.Context, date time.Time) ([]*domain.Shift, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

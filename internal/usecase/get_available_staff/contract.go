package get_available_staff

import (
	"context"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
)

// StaffOracle источник списка свободных сотрудников
type StaffOracle interface {
	AvailableStaff(ctx context.Context, date time.Time, iv domain.Interval) ([]string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

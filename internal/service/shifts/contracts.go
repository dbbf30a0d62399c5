package shifts

import (
	"context"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
)

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	Upsert(ctx context.Context, shift *domain.Shift) error
	ListByDate(ctx context.Context, date time.Time) ([]*domain.Shift, error)
}

// StaffRoster справочник сотрудников салона
type StaffRoster interface {
	InRoster(staffID string) bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

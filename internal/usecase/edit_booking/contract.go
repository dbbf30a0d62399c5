package edit_booking

import (
	"context"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/allocation"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByComboLink(ctx context.Context, linkID string) ([]*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	Delete(ctx context.Context, id string) error
}

// Planner интерфейс планировщика пересчёта цепочки
type Planner interface {
	PlanReflow(ctx context.Context, in allocation.ReflowInput) (*allocation.ReflowPlan, error)
}

// ServiceCatalog каталог услуг
type ServiceCatalog interface {
	Get(id string) (*domain.ServiceDefinition, bool)
}

// StaffRoster список сотрудников салона
type StaffRoster interface {
	InRoster(staffID string) bool
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

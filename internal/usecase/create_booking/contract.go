package create_booking

import (
	"context"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/allocation"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// Planner интерфейс планировщика размещения
type Planner interface {
	PlanSingle(ctx context.Context, svc *domain.ServiceDefinition, start time.Time, opts allocation.SingleOptions) (*allocation.SinglePlan, error)
	PlanCombo(ctx context.Context, svc *domain.ServiceDefinition, start time.Time, opts allocation.ComboOptions) (*allocation.ComboPlan, error)
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

package import_bookings

import (
	"context"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/allocation"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/availability"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	BulkCreate(ctx context.Context, bookings []*domain.Booking) error
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	DeleteByRange(ctx context.Context, from, to time.Time) (int64, error)
}

// Oracle оракул доступности, который умеет учитывать леджер пакета
type Oracle interface {
	WithLedger(ledger *availability.Ledger) *availability.Service
}

// Planner интерфейс планировщика размещения
type Planner interface {
	PlanSingle(ctx context.Context, svc *domain.ServiceDefinition, start time.Time, opts allocation.SingleOptions) (*allocation.SinglePlan, error)
	PlanCombo(ctx context.Context, svc *domain.ServiceDefinition, start time.Time, opts allocation.ComboOptions) (*allocation.ComboPlan, error)
}

// PlannerFactory создает планировщик поверх оракула пакета
type PlannerFactory func(oracle allocation.Oracle) Planner

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

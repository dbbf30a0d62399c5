package get_available_slots

import (
	"context"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/allocation"
)

// ResourceOracle проверка занятости ресурса
type ResourceOracle interface {
	IsResourceFree(ctx context.Context, resourceID string, iv domain.Interval, exclude ...string) (bool, error)
}

// ComboPlanner пробное размещение комбо-услуги (без записи)
type ComboPlanner interface {
	PlanCombo(ctx context.Context, svc *domain.ServiceDefinition, start time.Time, opts allocation.ComboOptions) (*allocation.ComboPlan, error)
}

// ResourceCatalog пулы ресурсов по категориям
type ResourceCatalog interface {
	Pool(category domain.Category) []string
}

// ServiceCatalog каталог услуг
type ServiceCatalog interface {
	Get(id string) (*domain.ServiceDefinition, bool)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

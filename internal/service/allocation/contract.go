package allocation

import (
	"context"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
)

// Oracle проверки доступности ресурсов и сотрудников
type Oracle interface {
	IsResourceFree(ctx context.Context, resourceID string, iv domain.Interval, exclude ...string) (bool, error)
	CheckStaff(ctx context.Context, staffID string, iv domain.Interval, exclude ...string) (*domain.StaffUnavailableError, error)
}

// Metrics счетчики результатов размещения; *metrics.Metrics допускает nil
type Metrics interface {
	RecordAllocation(category, result string)
	RecordComboOrder(order string)
	RecordReflow(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type nopMetrics struct{}

func (nopMetrics) RecordAllocation(string, string) {}
func (nopMetrics) RecordComboOrder(string)         {}
func (nopMetrics) RecordReflow(string)             {}

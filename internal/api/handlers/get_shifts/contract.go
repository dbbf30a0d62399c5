package get_shifts

import (
	"context"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/service/shifts"
)

type ShiftService interface {
	ListByDate(ctx context.Context, date time.Time) ([]shifts.ShiftResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

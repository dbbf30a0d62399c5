package set_shift

import (
	"context"

	"github.com/Endo1018/salon-reservation-sub000/internal/service/shifts"
)

type ShiftService interface {
	SetShift(ctx context.Context, req *shifts.SetShiftRequest) (*shifts.ShiftResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package clear_bookings

import (
	"context"

	"github.com/Endo1018/salon-reservation-sub000/internal/service/bookings/models"
)

type BookingService interface {
	ClearRange(ctx context.Context, req *models.ClearRangeRequest) (int64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

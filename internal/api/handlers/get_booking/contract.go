package get_booking

import (
	"context"

	"github.com/Endo1018/salon-reservation-sub000/internal/service/bookings/models"
)

type BookingService interface {
	GetGroup(ctx context.Context, id string) (*models.GroupResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

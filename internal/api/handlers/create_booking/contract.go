package create_booking

import (
	"context"

	createBooking "github.com/Endo1018/salon-reservation-sub000/internal/usecase/create_booking"
)

type CreateBookingUseCase interface {
	ExecuteSingle(ctx context.Context, req *createBooking.SingleRequest) (*createBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package import_bookings

import (
	"context"

	importBookings "github.com/Endo1018/salon-reservation-sub000/internal/usecase/import_bookings"
)

type ImportBookingsUseCase interface {
	Execute(ctx context.Context, req *importBookings.Request) (*importBookings.Report, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

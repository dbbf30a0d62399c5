package get_available_staff

import (
	"context"
	"fmt"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

// UseCase use case для подбора сотрудников, свободных на интервале.
// Результат носит рекомендательный характер: при записи сотрудник проверяется заново.
type UseCase struct {
	oracle   StaffOracle
	location *time.Location
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(oracle StaffOracle, location *time.Location, logger Logger) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		oracle:   oracle,
		location: location,
		logger:   logger,
	}
}

// Execute возвращает сотрудников без отсутствия на дату и без пересекающихся бронирований
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableStaff: date=%s, time=%s, duration=%d",
		req.Date.Format(domain.DateFormat), req.StartTime, req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableStaff: validation failed: %v", err)
		return nil, err
	}

	start, err := req.StartTime.On(req.Date, uc.location)
	if err != nil {
		uc.logger.Warn("GetAvailableStaff: invalid start time %q: %v", req.StartTime, err)
		return nil, fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	iv := domain.NewInterval(start, req.DurationMinutes)

	// 2. Запрашиваем свободных сотрудников
	staff, err := uc.oracle.AvailableStaff(ctx, domain.DateOf(start, uc.location), iv)
	if err != nil {
		uc.logger.Error("GetAvailableStaff: failed to resolve staff for %s: %v", iv, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableStaff: %d staff available for %s", len(staff), iv)

	return &Response{
		Date:      domain.DateOf(start, uc.location),
		StartTime: req.StartTime,
		EndTime:   types.NewTimeString(iv.End.In(uc.location)),
		StaffIDs:  staff,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if req.DurationMinutes < domain.MinServiceDurationMinutes || req.DurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}
	return nil
}

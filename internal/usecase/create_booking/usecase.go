package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	bookingRepo "github.com/Endo1018/salon-reservation-sub000/internal/infra/storage/booking"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/allocation"
	"github.com/Endo1018/salon-reservation-sub000/pkg/txmanager"
)

// UseCase use case для создания бронирований (одиночных и комбо).
// Проверка доступности и запись выполняются в одной сериализуемой транзакции.
type UseCase struct {
	bookingRepo BookingRepository
	planner     Planner
	services    ServiceCatalog
	roster      StaffRoster
	txManager   TransactionManager
	location    *time.Location
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	planner Planner,
	services ServiceCatalog,
	roster StaffRoster,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo: bookingRepo,
		planner:     planner,
		services:    services,
		roster:      roster,
		txManager:   txManager,
		location:    location,
		logger:      logger,
	}
}

// ExecuteSingle создает одиночное бронирование.
// Ресурс выбирается из пула категории услуги: подсказка, если свободна, иначе first-fit.
func (uc *UseCase) ExecuteSingle(ctx context.Context, req *SingleRequest) (*Response, error) {
	uc.logger.Info("CreateSingle: service=%s, date=%s, time=%s, hint=%q",
		req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, req.ResourceHint)

	// 1. Валидация входных данных
	start, err := validateStart(req.Date, req.StartTime, uc.location)
	if err != nil {
		uc.logger.Warn("CreateSingle: validation failed: %v", err)
		return nil, err
	}
	if err := validateClientName(req.ClientName); err != nil {
		uc.logger.Warn("CreateSingle: validation failed: %v", err)
		return nil, err
	}
	if err := validateStaff(uc.roster, req.StaffID); err != nil {
		uc.logger.Warn("CreateSingle: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	svc, ok := uc.services.Get(req.ServiceID)
	if !ok {
		uc.logger.Warn("CreateSingle: service id=%s not found", req.ServiceID)
		return nil, ErrServiceNotFound
	}
	if svc.IsCombo() {
		uc.logger.Warn("CreateSingle: service id=%s is a combo", req.ServiceID)
		return nil, fmt.Errorf("%w: service %s is a combo", ErrWrongServiceKind, svc.ID)
	}

	var result *domain.Booking

	// 3. Размещение и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		plan, err := uc.planner.PlanSingle(txCtx, svc, start, allocation.SingleOptions{
			ResourceHint: req.ResourceHint,
			StaffID:      req.StaffID,
		})
		if err != nil {
			return err
		}

		booking := plan.Booking
		booking.ClientName = req.ClientName
		if req.Hold {
			booking.Status = domain.StatusHold
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		return nil, uc.mapError("CreateSingle", err)
	}

	uc.logger.Info("CreateSingle: booking id=%s created on %s for %s",
		result.ID, result.ResourceID, result.Interval())

	return &Response{Bookings: []*domain.Booking{result}}, nil
}

// mapError отделяет ожидаемые отказы размещения от конфликтов записи и внутренних ошибок
func (uc *UseCase) mapError(op string, err error) error {
	switch {
	case domain.IsAllocationFailure(err):
		uc.logger.Warn("%s: %v", op, err)
		return err

	case errors.Is(err, bookingRepo.ErrSlotConflict), errors.Is(err, txmanager.ErrConflict),
		errors.Is(err, txmanager.ErrConstraint):
		uc.logger.Warn("%s: concurrent write conflict: %v", op, err)
		return fmt.Errorf("%w: %v", ErrSlotConflict, err)

	case errors.Is(err, allocation.ErrInvalidInput):
		uc.logger.Warn("%s: %v", op, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)

	default:
		uc.logger.Error("%s: %v", op, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

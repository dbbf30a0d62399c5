package edit_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	bookingRepo "github.com/Endo1018/salon-reservation-sub000/internal/infra/storage/booking"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/allocation"
	"github.com/Endo1018/salon-reservation-sub000/pkg/txmanager"
	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

// UseCase use case для правки бронирования с пересчётом всей цепочки этапов.
// Изменения применяются только если вся цепочка размещается.
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

// Execute применяет правку к бронированию и его группе
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("EditBooking: booking id=%s", req.BookingID)

	// 1. Валидация входных данных, не зависящих от хранилища
	if req.BookingID == "" {
		return nil, fmt.Errorf("%w: bookingId is required", ErrInvalidInput)
	}
	if !req.NewOrder.Valid() {
		uc.logger.Warn("EditBooking: unknown order %q", req.NewOrder)
		return nil, fmt.Errorf("%w: unknown leg order %q", ErrInvalidInput, req.NewOrder)
	}
	if err := uc.validateStaff(req); err != nil {
		uc.logger.Warn("EditBooking: %v", err)
		return nil, err
	}

	var newService *domain.ServiceDefinition
	if req.NewServiceID != nil {
		svc, ok := uc.services.Get(*req.NewServiceID)
		if !ok {
			uc.logger.Warn("EditBooking: service id=%s not found", *req.NewServiceID)
			return nil, ErrServiceNotFound
		}
		newService = svc
	}

	resp := &Response{}

	// 2. Чтение группы, пересчёт и запись в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		anchor, group, err := uc.loadGroup(txCtx, req.BookingID)
		if err != nil {
			return err
		}

		for id := range req.StaffAssignments {
			if !containsID(group, id) {
				return fmt.Errorf("%w: booking %s is not part of the group", ErrInvalidInput, id)
			}
		}

		newStart, err := uc.resolveStart(anchor, req)
		if err != nil {
			return err
		}

		current, _ := uc.services.Get(anchor.ServiceID)

		plan, err := uc.planner.PlanReflow(txCtx, allocation.ReflowInput{
			Group:              group,
			AnchorID:           anchor.ID,
			Service:            current,
			NewStart:           newStart,
			NewDurationMinutes: req.NewDurationMinutes,
			NewService:         newService,
			StaffAssignments:   req.StaffAssignments,
			NewLegStaffID:      req.NewLegStaffID,
			NewOrder:           req.NewOrder,
		})
		if err != nil {
			return err
		}

		if plan.IsNoop() {
			resp.Group = plan.Group
			return nil
		}

		if err := uc.apply(txCtx, plan); err != nil {
			return err
		}
		resp.Changed = true

		// перечитываем группу, чтобы вернуть актуальные отметки времени
		_, resp.Group, err = uc.loadGroup(txCtx, plan.Group[0].ID)
		return err
	})
	if err != nil {
		return nil, uc.mapError(err)
	}

	if resp.Changed {
		uc.logger.Info("EditBooking: booking id=%s updated, group of %d leg(s)", req.BookingID, len(resp.Group))
	} else {
		uc.logger.Info("EditBooking: booking id=%s unchanged", req.BookingID)
	}
	return resp, nil
}

// loadGroup возвращает бронирование и все этапы его группы
func (uc *UseCase) loadGroup(ctx context.Context, bookingID string) (*domain.Booking, []*domain.Booking, error) {
	anchor, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if !anchor.CanBeUpdated() {
		return nil, nil, fmt.Errorf("%w: status %s", ErrCannotEdit, anchor.Status)
	}

	if anchor.ComboLinkID == nil {
		return anchor, []*domain.Booking{anchor}, nil
	}

	group, err := uc.bookingRepo.GetByComboLink(ctx, *anchor.ComboLinkID)
	if err != nil {
		return nil, nil, err
	}
	return anchor, activeOnly(group), nil
}

// apply записывает план: удаления, обновления, затем новые этапы.
// Ограничения на пересечения проверяются при фиксации транзакции.
func (uc *UseCase) apply(ctx context.Context, plan *allocation.ReflowPlan) error {
	for _, id := range plan.Deletes {
		if err := uc.bookingRepo.Delete(ctx, id); err != nil {
			return err
		}
	}
	for _, b := range plan.Updates {
		if err := uc.bookingRepo.Update(ctx, b); err != nil {
			return err
		}
	}
	for _, b := range plan.Creates {
		if _, err := uc.bookingRepo.Create(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

// resolveStart собирает новое начало из даты и времени; nil - начало не меняется
func (uc *UseCase) resolveStart(anchor *domain.Booking, req *Request) (*time.Time, error) {
	if req.NewDate == nil && req.NewStartTime == nil {
		return nil, nil
	}

	current := anchor.StartAt.In(uc.location)

	date := current
	if req.NewDate != nil {
		date = *req.NewDate
	}
	startTime := types.NewTimeString(current)
	if req.NewStartTime != nil {
		startTime = *req.NewStartTime
	}

	start, err := startTime.On(date, uc.location)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	return &start, nil
}

func (uc *UseCase) validateStaff(req *Request) error {
	staff := []*string{req.NewLegStaffID}
	for _, id := range req.StaffAssignments {
		staff = append(staff, id)
	}
	for _, id := range staff {
		if id != nil && !uc.roster.InRoster(*id) {
			return fmt.Errorf("%w: %s", ErrStaffNotFound, *id)
		}
	}
	return nil
}

func (uc *UseCase) mapError(err error) error {
	switch {
	case domain.IsAllocationFailure(err):
		uc.logger.Warn("EditBooking: %v", err)
		return err

	case errors.Is(err, bookingRepo.ErrBookingNotFound), errors.Is(err, domain.ErrGroupNotFound):
		uc.logger.Warn("EditBooking: %v", err)
		return ErrBookingNotFound

	case errors.Is(err, ErrCannotEdit), errors.Is(err, ErrInvalidInput):
		uc.logger.Warn("EditBooking: %v", err)
		return err

	case errors.Is(err, allocation.ErrUnsupportedEdit):
		uc.logger.Warn("EditBooking: %v", err)
		return fmt.Errorf("%w: %v", ErrUnsupportedEdit, err)

	case errors.Is(err, allocation.ErrInvalidInput):
		uc.logger.Warn("EditBooking: %v", err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)

	case errors.Is(err, bookingRepo.ErrSlotConflict), errors.Is(err, txmanager.ErrConflict),
		errors.Is(err, txmanager.ErrConstraint):
		uc.logger.Warn("EditBooking: concurrent write conflict: %v", err)
		return fmt.Errorf("%w: %v", ErrSlotConflict, err)

	default:
		uc.logger.Error("EditBooking: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func activeOnly(group []*domain.Booking) []*domain.Booking {
	out := make([]*domain.Booking, 0, len(group))
	for _, b := range group {
		if b.IsActive() {
			out = append(out, b)
		}
	}
	return out
}

func containsID(group []*domain.Booking, id string) bool {
	for _, b := range group {
		if b.ID == id {
			return true
		}
	}
	return false
}

package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	bookingRepo "github.com/Endo1018/salon-reservation-sub000/internal/infra/storage/booking"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями: чтение, отмена, подтверждение,
// административная очистка и снятие просроченных hold
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	location    *time.Location
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		location:    location,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking, s.location), nil
}

// GetGroup получает бронирование вместе со всеми этапами его группы.
// Для одиночного бронирования группа состоит из него самого.
func (s *Service) GetGroup(ctx context.Context, id string) (*models.GroupResponse, error) {
	s.logger.Info("GetGroup: fetching group of booking id=%s", id)

	var group []*domain.Booking
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		anchor, err := s.getBooking(txCtx, "GetGroup", id)
		if err != nil {
			return err
		}
		group, err = s.groupOf(txCtx, anchor)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetGroup: booking id=%s has %d legs", id, len(group))
	return models.FromDomainGroup(group, s.location), nil
}

// ListByDate получает все бронирования салона, начинающиеся в указанный день
func (s *Service) ListByDate(ctx context.Context, req *models.ListByDateRequest) (*models.BookingListResponse, error) {
	if req == nil || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	from := domain.DateOf(req.Date, s.location)
	to := from.AddDate(0, 0, 1)

	filter := domain.BookingsFilter{
		From:            &from,
		To:              &to,
		IncludeInactive: req.IncludeInactive,
	}

	// Конвертируем статус из строки в domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListByDate: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	s.logger.Info("ListByDate: fetching bookings for date=%s, status=%v, includeInactive=%v",
		from.Format(domain.DateFormat), req.Status, req.IncludeInactive)

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListByDate: repository error for date=%s: %v", from.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: ListByDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByDate: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings, s.location), nil
}

// Cancel отменяет бронирование вместе со всеми этапами его группы.
// Отменённые этапы перестают занимать ресурсы и сотрудников.
func (s *Service) Cancel(ctx context.Context, id string) (*models.GroupResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s", id)

	var group []*domain.Booking
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		anchor, err := s.getBooking(txCtx, "Cancel", id)
		if err != nil {
			return err
		}

		// Проверяем, можно ли отменить бронирование
		if !anchor.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", id, anchor.Status)
			return ErrCannotCancel
		}

		group, err = s.groupOf(txCtx, anchor)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(group))
		for _, b := range group {
			if b.CanBeCancelled() {
				ids = append(ids, b.ID)
			}
		}

		if err := s.setStatus(txCtx, "Cancel", ids, domain.StatusCancelled); err != nil {
			return err
		}

		group, err = s.groupOf(txCtx, anchor)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%s (%d legs)", id, len(group))
	return models.FromDomainGroup(group, s.location), nil
}

// Confirm переводит бронирование и его группу из hold в confirmed
func (s *Service) Confirm(ctx context.Context, id string) (*models.GroupResponse, error) {
	s.logger.Info("Confirm: confirming booking id=%s", id)

	var group []*domain.Booking
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		anchor, err := s.getBooking(txCtx, "Confirm", id)
		if err != nil {
			return err
		}

		if anchor.Status != domain.StatusHold {
			s.logger.Warn("Confirm: booking id=%s cannot be confirmed, status=%s", id, anchor.Status)
			return ErrCannotConfirm
		}

		group, err = s.groupOf(txCtx, anchor)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(group))
		for _, b := range group {
			if b.Status == domain.StatusHold {
				ids = append(ids, b.ID)
			}
		}

		if err := s.setStatus(txCtx, "Confirm", ids, domain.StatusConfirmed); err != nil {
			return err
		}

		group, err = s.groupOf(txCtx, anchor)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Confirm: successfully confirmed booking id=%s", id)
	return models.FromDomainGroup(group, s.location), nil
}

// ClearRange удаляет все бронирования, начинающиеся в [From, To), и остальные
// этапы их комбо-групп, даже если те начинаются позже To.
// Административная операция: записи удаляются физически, без отмены.
func (s *Service) ClearRange(ctx context.Context, req *models.ClearRangeRequest) (int64, error) {
	if req == nil || req.From.IsZero() || req.To.IsZero() || !req.From.Before(req.To) {
		return 0, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	s.logger.Info("ClearRange: deleting bookings from=%s to=%s",
		req.From.Format(time.RFC3339), req.To.Format(time.RFC3339))

	deleted, err := s.bookingRepo.DeleteByRange(ctx, req.From, req.To)
	if err != nil {
		s.logger.Error("ClearRange: repository error: %v", err)
		return 0, fmt.Errorf("%w: ClearRange - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ClearRange: deleted %d bookings", deleted)
	return deleted, nil
}

// ExpireHolds отменяет группы, в которых есть hold-этапы, созданные раньше olderThan.
// Возвращает количество отменённых этапов.
func (s *Service) ExpireHolds(ctx context.Context, olderThan time.Time) (int, error) {
	status := domain.StatusHold
	filter := domain.BookingsFilter{
		Status:        &status,
		CreatedBefore: &olderThan,
	}

	cancelled := 0
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		cancelled = 0

		expired, err := s.bookingRepo.List(txCtx, filter)
		if err != nil {
			s.logger.Error("ExpireHolds: repository error: %v", err)
			return fmt.Errorf("%w: ExpireHolds - repository error: %v", ErrInternal, err)
		}
		if len(expired) == 0 {
			return nil
		}

		seen := make(map[string]struct{}, len(expired))
		ids := make([]string, 0, len(expired))
		for _, b := range expired {
			group, err := s.groupOf(txCtx, b)
			if err != nil {
				return err
			}
			for _, leg := range group {
				if _, ok := seen[leg.ID]; ok || !leg.CanBeCancelled() {
					continue
				}
				seen[leg.ID] = struct{}{}
				ids = append(ids, leg.ID)
			}
		}

		if err := s.setStatus(txCtx, "ExpireHolds", ids, domain.StatusCancelled); err != nil {
			return err
		}
		cancelled = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if cancelled > 0 {
		s.logger.Info("ExpireHolds: cancelled %d legs held since before %s", cancelled, olderThan.Format(time.RFC3339))
	}
	return cancelled, nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op, id string) (*domain.Booking, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// groupOf возвращает этапы группы бронирования в хронологическом порядке
func (s *Service) groupOf(ctx context.Context, anchor *domain.Booking) ([]*domain.Booking, error) {
	if !anchor.IsCombo() {
		return []*domain.Booking{anchor}, nil
	}

	group, err := s.bookingRepo.GetByComboLink(ctx, *anchor.ComboLinkID)
	if err != nil {
		s.logger.Error("groupOf: repository error for link=%s: %v", *anchor.ComboLinkID, err)
		return nil, fmt.Errorf("%w: groupOf - repository error: %v", ErrInternal, err)
	}
	if len(group) == 0 {
		return []*domain.Booking{anchor}, nil
	}

	domain.SortByStart(group)
	return group, nil
}

func (s *Service) setStatus(ctx context.Context, op string, ids []string, status domain.BookingStatus) error {
	if len(ids) == 0 {
		return nil
	}

	if err := s.bookingRepo.UpdateStatus(ctx, ids, status); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: bookings %v not found during update", op, ids)
			return ErrBookingNotFound
		}
		s.logger.Error("%s: repository error while setting status=%s: %v", op, status, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return nil
}

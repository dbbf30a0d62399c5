package shifts

import (
	"context"
	"fmt"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
)

// Service сервис отметок о сменах сотрудников (working/off/leave/holiday)
type Service struct {
	shiftRepo ShiftRepository
	roster    StaffRoster
	location  *time.Location
	logger    Logger
}

// NewService создает новый экземпляр сервиса смен
func NewService(shiftRepo ShiftRepository, roster StaffRoster, location *time.Location, logger Logger) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		shiftRepo: shiftRepo,
		roster:    roster,
		location:  location,
		logger:    logger,
	}
}

// SetShift создает или заменяет отметку о смене сотрудника на дату
func (s *Service) SetShift(ctx context.Context, req *SetShiftRequest) (*ShiftResponse, error) {
	if req == nil || req.StaffID == "" || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: staff id and date are required", ErrInvalidInput)
	}

	status := domain.ShiftStatus(req.Status)
	if !status.Valid() {
		s.logger.Warn("SetShift: invalid status=%s for staff=%s", req.Status, req.StaffID)
		return nil, ErrInvalidStatus
	}

	if !s.roster.InRoster(req.StaffID) {
		s.logger.Warn("SetShift: staff=%s not in roster", req.StaffID)
		return nil, ErrStaffNotFound
	}

	shift := &domain.Shift{
		StaffID: req.StaffID,
		Date:    domain.DateOf(req.Date, s.location),
		Status:  status,
	}

	if err := s.shiftRepo.Upsert(ctx, shift); err != nil {
		s.logger.Error("SetShift: repository error for staff=%s: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: SetShift - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetShift: staff=%s date=%s status=%s",
		shift.StaffID, shift.Date.Format(domain.DateFormat), shift.Status)

	return toResponse(shift), nil
}

// ListByDate возвращает все отметки о сменах на дату
func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]ShiftResponse, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	shifts, err := s.shiftRepo.ListByDate(ctx, domain.DateOf(date, s.location))
	if err != nil {
		s.logger.Error("ListByDate: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListByDate - repository error: %v", ErrInternal, err)
	}

	out := make([]ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		out = append(out, *toResponse(sh))
	}
	return out, nil
}

func toResponse(sh *domain.Shift) *ShiftResponse {
	return &ShiftResponse{
		StaffID: sh.StaffID,
		Date:    sh.Date.Format(domain.DateFormat),
		Status:  string(sh.Status),
	}
}

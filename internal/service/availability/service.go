package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
)

// Service отвечает на вопросы "свободен ли ресурс/сотрудник в интервале".
// Ничего не записывает; итоговая проверка всегда повторяется внутри транзакции записи.
type Service struct {
	bookings BookingReader
	shifts   ShiftReader
	roster   []string
	location *time.Location
	logger   Logger
}

// NewService создает сервис доступности.
// roster - упорядоченный список сотрудников, location - часовой пояс салона
// (по нему определяется дата смены для интервала).
func NewService(
	bookings BookingReader,
	shifts ShiftReader,
	roster []string,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	r := make([]string, len(roster))
	copy(r, roster)

	return &Service{
		bookings: bookings,
		shifts:   shifts,
		roster:   r,
		location: location,
		logger:   logger,
	}
}

// WithLedger возвращает копию сервиса, видящую предварительные бронирования леджера
func (s *Service) WithLedger(ledger *Ledger) *Service {
	cp := *s
	cp.bookings = ledger.Over(s.bookings)
	return &cp
}

// Location часовой пояс салона
func (s *Service) Location() *time.Location {
	return s.location
}

// Roster возвращает копию списка сотрудников
func (s *Service) Roster() []string {
	out := make([]string, len(s.roster))
	copy(out, s.roster)
	return out
}

// InRoster проверяет, что сотрудник есть в списке
func (s *Service) InRoster(staffID string) bool {
	for _, id := range s.roster {
		if id == staffID {
			return true
		}
	}
	return false
}

// IsResourceFree true, если на ресурсе нет активных бронирований, пересекающих iv.
// Бронирования из exclude игнорируются. Overflow-ресурс всегда свободен.
func (s *Service) IsResourceFree(ctx context.Context, resourceID string, iv domain.Interval, exclude ...string) (bool, error) {
	if resourceID == domain.OverflowResourceID {
		return true, nil
	}

	id := resourceID
	conflicts, err := s.overlapping(ctx, domain.OverlapFilter{
		ResourceID: &id,
		Start:      iv.Start,
		End:        iv.End,
		ExcludeIDs: exclude,
	})
	if err != nil {
		s.logger.Error("IsResourceFree: resource=%s interval=%s: %v", resourceID, iv, err)
		return false, err
	}

	return len(conflicts) == 0, nil
}

// IsStaffFree true, если сотрудник не отсутствует в эту дату и не занят в iv
func (s *Service) IsStaffFree(ctx context.Context, staffID string, iv domain.Interval, exclude ...string) (bool, error) {
	reason, err := s.CheckStaff(ctx, staffID, iv, exclude...)
	if err != nil {
		return false, err
	}
	return reason == nil, nil
}

// CheckStaff возвращает причину недоступности сотрудника или nil.
// Отсутствие по смене проверяется раньше пересечения с бронированиями.
func (s *Service) CheckStaff(ctx context.Context, staffID string, iv domain.Interval, exclude ...string) (*domain.StaffUnavailableError, error) {
	absent, err := s.absentOn(ctx, domain.DateOf(iv.Start, s.location))
	if err != nil {
		s.logger.Error("CheckStaff: staff=%s date=%s: %v", staffID, iv.Start.Format(domain.DateFormat), err)
		return nil, err
	}
	if _, ok := absent[staffID]; ok {
		return &domain.StaffUnavailableError{StaffID: staffID, Interval: iv, Reason: domain.ReasonShiftAbsence}, nil
	}

	id := staffID
	conflicts, err := s.overlapping(ctx, domain.OverlapFilter{
		StaffID:    &id,
		Start:      iv.Start,
		End:        iv.End,
		ExcludeIDs: exclude,
	})
	if err != nil {
		s.logger.Error("CheckStaff: staff=%s interval=%s: %v", staffID, iv, err)
		return nil, err
	}
	if len(conflicts) > 0 {
		return &domain.StaffUnavailableError{StaffID: staffID, Interval: iv, Reason: domain.ReasonBookingConflict}, nil
	}

	return nil, nil
}

// AvailableStaff возвращает сотрудников в порядке списка, которые не отсутствуют
// в date и не заняты в iv. Результат носит рекомендательный характер.
func (s *Service) AvailableStaff(ctx context.Context, date time.Time, iv domain.Interval) ([]string, error) {
	absent, err := s.absentOn(ctx, domain.DateOf(date, s.location))
	if err != nil {
		s.logger.Error("AvailableStaff: date=%s: %v", date.Format(domain.DateFormat), err)
		return nil, err
	}

	out := make([]string, 0, len(s.roster))
	for _, staffID := range s.roster {
		if _, ok := absent[staffID]; ok {
			continue
		}

		id := staffID
		conflicts, err := s.overlapping(ctx, domain.OverlapFilter{StaffID: &id, Start: iv.Start, End: iv.End})
		if err != nil {
			s.logger.Error("AvailableStaff: staff=%s interval=%s: %v", staffID, iv, err)
			return nil, err
		}
		if len(conflicts) == 0 {
			out = append(out, staffID)
		}
	}

	return out, nil
}

func (s *Service) overlapping(ctx context.Context, filter domain.OverlapFilter) ([]*domain.Booking, error) {
	rows, err := s.bookings.ListOverlapping(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: list overlapping: %w", ErrInternal, err)
	}

	out := rows[:0:0]
	for _, b := range rows {
		if filter.Matches(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Service) absentOn(ctx context.Context, date time.Time) (map[string]struct{}, error) {
	shifts, err := s.shifts.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%w: list shifts: %w", ErrInternal, err)
	}

	absent := make(map[string]struct{})
	for _, sh := range shifts {
		if sh.Status.IsAbsence() {
			absent[sh.StaffID] = struct{}{}
		}
	}
	return absent, nil
}

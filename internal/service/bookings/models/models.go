package models

import (
	"errors"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ListByDateRequest запрос на получение бронирований салона за день
type ListByDateRequest struct {
	Date            time.Time
	Status          *string
	IncludeInactive bool // Включить отменённые бронирования
}

// ClearRangeRequest запрос на удаление бронирований, начинающихся в [From, To)
type ClearRangeRequest struct {
	From time.Time
	To   time.Time
}

// Response модели

// BookingResponse ответ с данными бронирования (этапа).
// Дата и время приводятся к часовому поясу салона.
type BookingResponse struct {
	ID              string  `json:"id"`
	ResourceID      string  `json:"resourceId"`
	Category        string  `json:"category"`
	Overflow        bool    `json:"overflow,omitempty"`
	StaffID         *string `json:"staffId,omitempty"`
	Date            string  `json:"date"`      // "2025-10-15"
	StartTime       string  `json:"startTime"` // "10:00"
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	ComboLinkID     *string `json:"comboLinkId,omitempty"`
	IsPrimaryLeg    bool    `json:"isPrimaryLeg"`
	ServiceID       string  `json:"serviceId"`
	ClientName      string  `json:"clientName,omitempty"`

	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// GroupResponse этапы одной группы в хронологическом порядке
type GroupResponse struct {
	ComboLinkID *string           `json:"comboLinkId,omitempty"`
	Order       string            `json:"order,omitempty"` // порядок этапов, с которым размещено комбо
	Bookings    []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking, loc *time.Location) *BookingResponse {
	if b == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	start := b.StartAt.In(loc)
	end := b.EndAt.In(loc)

	return &BookingResponse{
		ID:              b.ID,
		ResourceID:      b.ResourceID,
		Category:        string(b.Category),
		Overflow:        b.IsOverflow(),
		StaffID:         b.StaffID,
		Date:            start.Format(domain.DateFormat),
		StartTime:       start.Format(domain.TimeFormat),
		EndTime:         end.Format(domain.TimeFormat),
		DurationMinutes: b.Interval().Minutes(),
		Status:          string(b.Status),
		ComboLinkID:     b.ComboLinkID,
		IsPrimaryLeg:    b.IsPrimaryLeg,
		ServiceID:       b.ServiceID,
		ClientName:      b.ClientName,
		StartAt:         start,
		EndAt:           end,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, loc *time.Location) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking, loc); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainGroup конвертирует этапы группы в DTO
func FromDomainGroup(group []*domain.Booking, loc *time.Location) *GroupResponse {
	resp := &GroupResponse{Bookings: FromDomainBookingList(group, loc).Bookings}
	if len(group) > 0 {
		resp.ComboLinkID = group[0].ComboLinkID
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

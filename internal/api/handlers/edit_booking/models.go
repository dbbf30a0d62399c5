package edit_booking

import (
	"errors"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/bookings/models"
	editBooking "github.com/Endo1018/salon-reservation-sub000/internal/usecase/edit_booking"
	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

var (
	errInvalidDate  = errors.New("invalid date")
	errInvalidTime  = errors.New("invalid time")
	errInvalidOrder = errors.New("invalid order")
)

// EditBookingRequest HTTP request model; отсутствующие поля не меняются
type EditBookingRequest struct {
	Date            *string `json:"date,omitempty"`
	StartTime       *string `json:"startTime,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	ServiceID       *string `json:"serviceId,omitempty"`
	// StaffAssignments ID этапа -> сотрудник; null снимает сотрудника
	StaffAssignments map[string]*string `json:"staffAssignments,omitempty"`
	NewLegStaffID    *string            `json:"newLegStaffId,omitempty"`
	Order            string             `json:"order,omitempty"`
}

// EditBookingResponse HTTP response model
type EditBookingResponse struct {
	Changed bool `json:"changed"`
	models.GroupResponse
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *EditBookingRequest) ToUseCaseRequest(bookingID string) (*editBooking.Request, error) {
	req := &editBooking.Request{
		BookingID:          bookingID,
		NewDurationMinutes: r.DurationMinutes,
		NewServiceID:       r.ServiceID,
		StaffAssignments:   r.StaffAssignments,
		NewLegStaffID:      r.NewLegStaffID,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, errInvalidDate
		}
		req.NewDate = &date
	}

	if r.StartTime != nil {
		st, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, errInvalidTime
		}
		req.NewStartTime = &st
	}

	if r.Order != "" {
		order := domain.LegOrder(r.Order)
		if !order.Valid() {
			return nil, errInvalidOrder
		}
		req.NewOrder = order
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *editBooking.Response, loc *time.Location) *EditBookingResponse {
	return &EditBookingResponse{
		Changed:       resp.Changed,
		GroupResponse: *models.FromDomainGroup(resp.Group, loc),
	}
}

package create_booking

import (
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/bookings/models"
	createBooking "github.com/Endo1018/salon-reservation-sub000/internal/usecase/create_booking"
	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID    string  `json:"serviceId"`
	Date         string  `json:"date"`      // "2025-10-15"
	StartTime    string  `json:"startTime"` // "10:00"
	ResourceHint string  `json:"resourceHint,omitempty"`
	StaffID      *string `json:"staffId,omitempty"`
	ClientName   string  `json:"clientName,omitempty"`
	Hold         bool    `json:"hold,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.SingleRequest, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, errInvalidDate
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &createBooking.SingleRequest{
		ServiceID:    r.ServiceID,
		Date:         date,
		StartTime:    startTime,
		ResourceHint: r.ResourceHint,
		StaffID:      r.StaffID,
		ClientName:   r.ClientName,
		Hold:         r.Hold,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response, loc *time.Location) *models.GroupResponse {
	group := models.FromDomainGroup(resp.Bookings, loc)
	group.ComboLinkID = resp.ComboLinkID
	group.Order = string(resp.Order)
	return group
}

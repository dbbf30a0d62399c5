package create_combo_booking

import (
	"errors"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	createBooking "github.com/Endo1018/salon-reservation-sub000/internal/usecase/create_booking"
	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

var (
	errInvalidDate  = errors.New("invalid date")
	errInvalidTime  = errors.New("invalid time")
	errInvalidOrder = errors.New("invalid order")
)

// CreateComboRequest HTTP request model
type CreateComboRequest struct {
	ServiceID    string  `json:"serviceId"`
	Date         string  `json:"date"`
	StartTime    string  `json:"startTime"`
	StaffIDLegA  *string `json:"staffIdLegA,omitempty"`
	StaffIDLegB  *string `json:"staffIdLegB,omitempty"`
	Order        string  `json:"order,omitempty"` // auto | forward | swapped
	ResourceHint string  `json:"resourceHint,omitempty"`
	ClientName   string  `json:"clientName,omitempty"`
	Hold         bool    `json:"hold,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateComboRequest) ToUseCaseRequest() (*createBooking.ComboRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, errInvalidDate
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	order := domain.OrderAuto
	if r.Order != "" {
		order = domain.LegOrder(r.Order)
		if !order.Valid() {
			return nil, errInvalidOrder
		}
	}

	return &createBooking.ComboRequest{
		ServiceID:    r.ServiceID,
		Date:         date,
		StartTime:    startTime,
		StaffA:       r.StaffIDLegA,
		StaffB:       r.StaffIDLegB,
		Order:        order,
		ResourceHint: r.ResourceHint,
		ClientName:   r.ClientName,
		Hold:         r.Hold,
	}, nil
}

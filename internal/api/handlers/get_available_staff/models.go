package get_available_staff

import (
	"strconv"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	getAvailableStaff "github.com/Endo1018/salon-reservation-sub000/internal/usecase/get_available_staff"
	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

// AvailableStaffResponse HTTP response model
type AvailableStaffResponse struct {
	Date      string   `json:"date"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	StaffIDs  []string `json:"staffIds"`
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(dateStr, startStr, durationStr string) (*getAvailableStaff.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	start, err := types.NewTimeStringFromString(startStr)
	if err != nil {
		return nil, err
	}

	duration, err := strconv.Atoi(durationStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableStaff.Request{
		Date:            date,
		StartTime:       start,
		DurationMinutes: duration,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableStaff.Response) *AvailableStaffResponse {
	staff := resp.StaffIDs
	if staff == nil {
		staff = []string{}
	}
	return &AvailableStaffResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		StartTime: resp.StartTime.String(),
		EndTime:   resp.EndTime.String(),
		StaffIDs:  staff,
	}
}

package shifts

import "time"

// SetShiftRequest запрос на установку статуса смены сотрудника
type SetShiftRequest struct {
	StaffID string
	Date    time.Time
	Status  string
}

// ShiftResponse смена сотрудника на дату
type ShiftResponse struct {
	StaffID string `json:"staffId"`
	Date    string `json:"date"`
	Status  string `json:"status"`
}

package domain

import "time"

// ShiftStatus is the attendance status of a staff member for one date
type ShiftStatus string

const (
	ShiftWorking ShiftStatus = "working"
	ShiftOff     ShiftStatus = "off"
	ShiftLeave   ShiftStatus = "leave"
	ShiftHoliday ShiftStatus = "holiday"
)

// Valid returns true for known statuses
func (s ShiftStatus) Valid() bool {
	switch s {
	case ShiftWorking, ShiftOff, ShiftLeave, ShiftHoliday:
		return true
	}
	return false
}

// IsAbsence returns true when the staff member cannot take bookings at all
func (s ShiftStatus) IsAbsence() bool {
	return s == ShiftOff || s == ShiftLeave || s == ShiftHoliday
}

// Shift is the shift record of a staff member for a salon-local date.
// A missing record means the staff member is not marked absent.
type Shift struct {
	StaffID string
	Date    time.Time // midnight of the salon-local date
	Status  ShiftStatus
}

// DateOf returns midnight of t's calendar date in loc
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

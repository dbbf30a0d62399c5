package domain

import (
	"errors"
	"fmt"
)

// ErrGroupNotFound is returned when a booking or its linked group does not exist
var ErrGroupNotFound = errors.New("booking group not found")

// NoResourceAvailableError means every resource of Category is taken during Interval.
type NoResourceAvailableError struct {
	Category  Category
	Interval  Interval
	BookingID string // leg being placed, empty for new legs
}

func (e *NoResourceAvailableError) Error() string {
	if e.BookingID != "" {
		return fmt.Sprintf("no %s available for %s (booking %s)", e.Category, e.Interval, e.BookingID)
	}
	return fmt.Sprintf("no %s available for %s", e.Category, e.Interval)
}

// StaffUnavailableReason explains why a staff member cannot take a booking
type StaffUnavailableReason string

const (
	ReasonShiftAbsence    StaffUnavailableReason = "shift_absence"
	ReasonBookingConflict StaffUnavailableReason = "booking_conflict"
)

// StaffUnavailableError means StaffID cannot serve Interval.
type StaffUnavailableError struct {
	StaffID  string
	Interval Interval
	Reason   StaffUnavailableReason
}

func (e *StaffUnavailableError) Error() string {
	switch e.Reason {
	case ReasonShiftAbsence:
		return fmt.Sprintf("staff %s is absent on %s", e.StaffID, e.Interval.Start.Format(DateFormat))
	default:
		return fmt.Sprintf("staff %s is already booked during %s", e.StaffID, e.Interval)
	}
}

// InvalidServiceSplitError means combo leg durations do not add up to the service total.
type InvalidServiceSplitError struct {
	ServiceID     string
	DeclaredTotal int
	SumOfLegs     int
}

func (e *InvalidServiceSplitError) Error() string {
	return fmt.Sprintf("service %s: legs sum to %d min, declared total is %d min",
		e.ServiceID, e.SumOfLegs, e.DeclaredTotal)
}

// IsAllocationFailure reports whether err is an expected "fully booked" outcome
func IsAllocationFailure(err error) bool {
	var noResource *NoResourceAvailableError
	var staff *StaffUnavailableError
	return errors.As(err, &noResource) || errors.As(err, &staff)
}

package domain

import (
	"fmt"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

// DaySchedule is the opening window of one weekday. An empty Open means closed.
type DaySchedule struct {
	Open  types.TimeString
	Close types.TimeString
}

// IsOpen returns true if the salon works on this day
func (d DaySchedule) IsOpen() bool {
	return !d.Open.IsZero() && !d.Close.IsZero()
}

// SalonHours describes when bookings may start. It only drives the slot grid;
// the allocation engine itself accepts any interval.
type SalonHours struct {
	Week                    [7]DaySchedule // indexed by time.Weekday
	SlotStepMinutes         int
	MinBookingNoticeMinutes int
	AdvanceBookingDays      int // 0 = unlimited
}

// On returns the schedule for the weekday of date
func (h *SalonHours) On(date time.Time) DaySchedule {
	return h.Week[date.Weekday()]
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (h *SalonHours) HasAdvanceBookingLimit() bool {
	return h.AdvanceBookingDays > 0
}

func (h *SalonHours) Validate() error {
	if h.SlotStepMinutes <= 0 {
		return fmt.Errorf("salon hours: slot step must be positive, got %d", h.SlotStepMinutes)
	}
	if h.MinBookingNoticeMinutes < 0 || h.AdvanceBookingDays < 0 {
		return fmt.Errorf("salon hours: notice and advance days must not be negative")
	}
	for wd, d := range h.Week {
		if !d.IsOpen() {
			continue
		}
		if err := d.Open.Validate(); err != nil {
			return fmt.Errorf("salon hours: %s: %w", time.Weekday(wd), err)
		}
		if err := d.Close.Validate(); err != nil {
			return fmt.Errorf("salon hours: %s: %w", time.Weekday(wd), err)
		}
		if !d.Open.IsBefore(d.Close) {
			return fmt.Errorf("salon hours: %s closes at %s before opening at %s", time.Weekday(wd), d.Close, d.Open)
		}
	}
	return nil
}

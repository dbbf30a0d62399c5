package domain

import (
	"sort"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusHold      BookingStatus = "hold"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Valid returns true for known statuses
func (s BookingStatus) Valid() bool {
	return s == StatusHold || s == StatusConfirmed || s == StatusCancelled
}

// Booking is one leg of a reservation: a resource, an optional staff member and a time range.
// Multi-part bookings share ComboLinkID.
type Booking struct {
	ID           string
	ResourceID   string   // physical resource or OverflowResourceID
	Category     Category // pool the leg is allocated from
	StaffID      *string  // nil = unassigned
	StartAt      time.Time
	EndAt        time.Time
	Status       BookingStatus
	ComboLinkID  *string
	IsPrimaryLeg bool

	// Display-only data
	ServiceID  string
	ClientName string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the booking's [StartAt, EndAt)
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartAt, End: b.EndAt}
}

// IsActive returns true if the booking occupies its resource and staff member
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusHold || b.Status == StatusConfirmed
}

// CanBeUpdated returns true if the booking can be edited
func (b *Booking) CanBeUpdated() bool {
	return b.Status == StatusHold || b.Status == StatusConfirmed
}

// IsOverflow returns true if no physical resource was assigned
func (b *Booking) IsOverflow() bool {
	return b.ResourceID == OverflowResourceID
}

// IsCombo returns true if the booking is a leg of a linked group
func (b *Booking) IsCombo() bool {
	return b.ComboLinkID != nil
}

// Clone returns a deep copy
func (b *Booking) Clone() *Booking {
	c := *b
	if b.StaffID != nil {
		staff := *b.StaffID
		c.StaffID = &staff
	}
	if b.ComboLinkID != nil {
		link := *b.ComboLinkID
		c.ComboLinkID = &link
	}
	return &c
}

// SortByStart orders legs by start time, then by id for a stable result
func SortByStart(bookings []*Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].StartAt.Equal(bookings[j].StartAt) {
			return bookings[i].StartAt.Before(bookings[j].StartAt)
		}
		return bookings[i].ID < bookings[j].ID
	})
}

// OverlapFilter selects active bookings overlapping [Start, End) on a resource or a staff member.
// Exactly one of ResourceID and StaffID is expected to be set.
type OverlapFilter struct {
	ResourceID *string
	StaffID    *string
	Start      time.Time
	End        time.Time
	ExcludeIDs []string
}

// Matches applies the filter to a booking in Go; storage implementations may pre-filter in SQL
func (f OverlapFilter) Matches(b *Booking) bool {
	if !b.IsActive() {
		return false
	}
	if f.ResourceID != nil && b.ResourceID != *f.ResourceID {
		return false
	}
	if f.StaffID != nil && (b.StaffID == nil || *b.StaffID != *f.StaffID) {
		return false
	}
	for _, id := range f.ExcludeIDs {
		if b.ID == id {
			return false
		}
	}
	return Overlaps(b.StartAt, b.EndAt, f.Start, f.End)
}

// BookingsFilter selects bookings for listings
type BookingsFilter struct {
	From            *time.Time // StartAt >= From
	To              *time.Time // StartAt < To
	Status          *BookingStatus
	CreatedBefore   *time.Time
	IncludeInactive bool
}

// Matches applies the filter to a booking in Go
func (f BookingsFilter) Matches(b *Booking) bool {
	if f.From != nil && b.StartAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !b.StartAt.Before(*f.To) {
		return false
	}
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	if f.CreatedBefore != nil && !b.CreatedAt.Before(*f.CreatedBefore) {
		return false
	}
	if f.Status == nil && !f.IncludeInactive && !b.IsActive() {
		return false
	}
	return true
}

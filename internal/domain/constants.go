package domain

// OverflowResourceID is the non-physical resource assigned by bulk historical import
// when every resource of a category is taken. Overflow bookings are never checked
// against each other.
const OverflowResourceID = "overflow"

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MaxClientNameLength       = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses statuses excluded from every overlap check
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}

// ActiveStatuses statuses that occupy a resource and a staff member
var ActiveStatuses = []BookingStatus{
	StatusHold,
	StatusConfirmed,
}

package edit_booking

import (
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

// Request правка бронирования; незаданные поля не меняются
type Request struct {
	BookingID string

	// NewDate и NewStartTime задают новое начало редактируемого этапа.
	// Если указано только одно из них, второе берётся из текущего начала.
	NewDate      *time.Time
	NewStartTime *types.TimeString

	NewDurationMinutes *int
	NewServiceID       *string

	// StaffAssignments назначения по ID этапа; nil-значение снимает сотрудника
	StaffAssignments map[string]*string
	// NewLegStaffID сотрудник для этапа, создаваемого при смене одиночной услуги на комбо
	NewLegStaffID *string
	NewOrder      domain.LegOrder
}

// Response итоговая группа бронирований
type Response struct {
	Group   []*domain.Booking
	Changed bool
}

package get_available_staff

import (
	"time"

	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

// Request модель запроса свободных сотрудников
type Request struct {
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
}

// Response модель ответа: сотрудники в порядке списка салона
type Response struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	StaffIDs  []string
}

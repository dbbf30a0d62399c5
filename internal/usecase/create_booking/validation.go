package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

// validateStart проверяет дату и время начала и переводит их в момент времени салона
func validateStart(date time.Time, startTime types.TimeString, loc *time.Location) (time.Time, error) {
	// Проверяем, что дата не является нулевой
	if date.IsZero() {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if startTime.IsZero() {
		return time.Time{}, fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	start, err := startTime.On(date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	return start, nil
}

// validateClientName проверяет имя клиента
func validateClientName(name string) error {
	if len([]rune(strings.TrimSpace(name))) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: client name is longer than %d characters", ErrInvalidInput, domain.MaxClientNameLength)
	}
	return nil
}

// validateStaff проверяет, что указанные сотрудники есть в списке салона
func validateStaff(roster StaffRoster, staff ...*string) error {
	for _, id := range staff {
		if id != nil && !roster.InRoster(*id) {
			return fmt.Errorf("%w: %s", ErrStaffNotFound, *id)
		}
	}
	return nil
}

package edit_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("edit_booking: booking not found")

	// ErrCannotEdit возвращается при попытке изменить отменённое бронирование
	ErrCannotEdit = errors.New("edit_booking: booking cannot be edited")

	// ErrServiceNotFound возвращается, когда новая услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("edit_booking: service not found")

	// ErrStaffNotFound возвращается, когда сотрудника нет в списке салона
	ErrStaffNotFound = errors.New("edit_booking: staff not found")

	// ErrUnsupportedEdit возвращается для правок, которые нельзя пересчитать
	ErrUnsupportedEdit = errors.New("edit_booking: unsupported edit")

	// ErrSlotConflict возвращается, когда параллельная запись заняла выбранный интервал
	ErrSlotConflict = errors.New("edit_booking: slot taken by a concurrent booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("edit_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("edit_booking: internal error")
)

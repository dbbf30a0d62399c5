package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrStaffNotFound возвращается, когда сотрудника нет в списке салона
	ErrStaffNotFound = errors.New("create_booking: staff not found")

	// ErrWrongServiceKind возвращается, когда одиночный сценарий вызван для комбо-услуги и наоборот
	ErrWrongServiceKind = errors.New("create_booking: wrong service kind")

	// ErrSlotConflict возвращается, когда параллельная запись заняла выбранный интервал
	ErrSlotConflict = errors.New("create_booking: slot taken by a concurrent booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

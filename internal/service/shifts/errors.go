package shifts

import "errors"

var (
	// ErrStaffNotFound возвращается, когда сотрудника нет в справочнике
	ErrStaffNotFound = errors.New("staff not found")

	// ErrInvalidStatus возвращается при неизвестном статусе смены
	ErrInvalidStatus = errors.New("invalid shift status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

package import_bookings

import "errors"

var (
	// ErrInvalidFile возвращается, когда файл нельзя прочитать как CSV с нужными колонками
	ErrInvalidFile = errors.New("import_bookings: invalid file")

	// ErrInvalidRows возвращается в строгом режиме, если хотя бы одна строка некорректна
	ErrInvalidRows = errors.New("import_bookings: file contains invalid rows")

	// ErrSlotConflict возвращается, когда параллельная запись заняла интервал из пакета
	ErrSlotConflict = errors.New("import_bookings: slot taken by a concurrent booking")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("import_bookings: internal error")
)

package availability

import "errors"

var (
	// ErrInternal возвращается при ошибках чтения хранилища.
	// Ошибка хранилища никогда не трактуется как "ресурс занят".
	ErrInternal = errors.New("availability: internal error")
)

package allocation

import "errors"

var (
	// ErrUnknownCategory возвращается, когда категория не описана в каталоге ресурсов
	ErrUnknownCategory = errors.New("allocation: unknown category")

	// ErrNotCombo возвращается при попытке разместить одиночную услугу как комбо
	ErrNotCombo = errors.New("allocation: service is not a combo")

	// ErrUnsupportedEdit возвращается для правок, которые нельзя пересчитать
	// (например, смена услуги у цепочки из трёх и более этапов)
	ErrUnsupportedEdit = errors.New("allocation: unsupported edit")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("allocation: invalid input")
)

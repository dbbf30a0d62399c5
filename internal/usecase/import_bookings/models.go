package import_bookings

import (
	"io"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

// Request запрос на импорт
type Request struct {
	Source io.Reader

	// Strict отменяет весь импорт при первой некорректной строке
	Strict bool
	// Replace удаляет существующие бронирования в диапазоне дат файла перед записью
	Replace bool
	// DryRun рассчитывает размещение без записи
	DryRun bool
}

// Row строка файла после разбора
type Row struct {
	Line         int
	Date         time.Time
	StartTime    types.TimeString
	ServiceID    string
	ResourceHint string
	StaffID      *string
	StaffIDB     *string // второй этап комбо
	ClientName   string
	Order        domain.LegOrder
}

// RowError ошибка строки файла
type RowError struct {
	Line    int
	Message string
}

// Report итог импорта
type Report struct {
	Rows         int
	Imported     int
	Bookings     int
	Overflow     int
	StaffDropped int
	Replaced     int64
	DryRun       bool
	RowErrors    []RowError
}

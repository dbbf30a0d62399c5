package import_bookings

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

// Колонки файла импорта. Порядок колонок произвольный, заголовок обязателен.
const (
	colDate         = "date"
	colStartTime    = "start_time"
	colServiceID    = "service_id"
	colResourceHint = "resource_hint"
	colStaffID      = "staff_id"
	colStaffIDB     = "staff_id_b"
	colClientName   = "client_name"
	colOrder        = "order"
)

var requiredColumns = []string{colDate, colStartTime, colServiceID}

// parseRows читает CSV с заголовком. Некорректные строки попадают в rowErrors,
// ошибка возвращается только если файл нельзя прочитать целиком.
func parseRows(src io.Reader) ([]Row, []RowError, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("%w: empty file", ErrInvalidFile)
		}
		return nil, nil, fmt.Errorf("%w: header: %v", ErrInvalidFile, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, fmt.Errorf("%w: missing column %q", ErrInvalidFile, col)
		}
	}

	var (
		rows      []Row
		rowErrors []RowError
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
		}

		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}

		row, err := parseRow(record, index)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Message: err.Error()})
			continue
		}
		row.Line = line
		rows = append(rows, row)
	}

	return rows, rowErrors, nil
}

func parseRow(record []string, index map[string]int) (Row, error) {
	field := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	optional := func(col string) *string {
		if v := field(col); v != "" {
			return &v
		}
		return nil
	}

	date, err := time.Parse(domain.DateFormat, field(colDate))
	if err != nil {
		return Row{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", field(colDate))
	}

	startTime, err := types.NewTimeStringFromString(field(colStartTime))
	if err != nil {
		return Row{}, fmt.Errorf("invalid start time %q, expected HH:MM", field(colStartTime))
	}

	serviceID := field(colServiceID)
	if serviceID == "" {
		return Row{}, fmt.Errorf("service id is required")
	}

	order := domain.LegOrder(strings.ToLower(field(colOrder)))
	if !order.Valid() {
		return Row{}, fmt.Errorf("unknown leg order %q", order)
	}

	clientName := field(colClientName)
	if len([]rune(clientName)) > domain.MaxClientNameLength {
		return Row{}, fmt.Errorf("client name is longer than %d characters", domain.MaxClientNameLength)
	}

	return Row{
		Date:         date,
		StartTime:    startTime,
		ServiceID:    serviceID,
		ResourceHint: field(colResourceHint),
		StaffID:      optional(colStaffID),
		StaffIDB:     optional(colStaffIDB),
		ClientName:   clientName,
		Order:        order,
	}, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

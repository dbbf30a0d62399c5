package import_bookings

import (
	importBookings "github.com/Endo1018/salon-reservation-sub000/internal/usecase/import_bookings"
)

// RowErrorResponse отклоненная строка файла
type RowErrorResponse struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ReportResponse HTTP response model
type ReportResponse struct {
	Rows         int                `json:"rows"`
	Imported     int                `json:"imported"`
	Bookings     int                `json:"bookings"`
	Overflow     int                `json:"overflow"`
	StaffDropped int                `json:"staffDropped"`
	Replaced     int64              `json:"replaced"`
	DryRun       bool               `json:"dryRun"`
	RowErrors    []RowErrorResponse `json:"rowErrors"`
}

// FromUseCaseReport конвертирует отчет use case в HTTP response
func FromUseCaseReport(report *importBookings.Report) *ReportResponse {
	rowErrors := make([]RowErrorResponse, 0, len(report.RowErrors))
	for _, e := range report.RowErrors {
		rowErrors = append(rowErrors, RowErrorResponse{Line: e.Line, Message: e.Message})
	}

	return &ReportResponse{
		Rows:         report.Rows,
		Imported:     report.Imported,
		Bookings:     report.Bookings,
		Overflow:     report.Overflow,
		StaffDropped: report.StaffDropped,
		Replaced:     report.Replaced,
		DryRun:       report.DryRun,
		RowErrors:    rowErrors,
	}
}

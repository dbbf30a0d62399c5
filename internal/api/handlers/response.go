package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
)

const (
	msgInternalError = "внутренняя ошибка сервера"
	msgNoResource    = "нет свободных ресурсов категории %s на %s"
	msgStaffAbsent   = "сотрудник %s не работает %s"
	msgStaffBusy     = "сотрудник %s занят в интервале %s"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConflictResponse тело ответа при невозможности разместить бронирование.
// Время указывается по часовому поясу салона.
type ConflictResponse struct {
	Error     string `json:"error"`
	Reason    string `json:"reason"`
	Category  string `json:"category,omitempty"`
	StaffID   string `json:"staffId,omitempty"`
	BookingID string `json:"bookingId,omitempty"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

const (
	ReasonNoResourceAvailable = "no_resource_available"
	ReasonStaffUnavailable    = "staff_unavailable"
)

// DecodeJSON декодирует тело запроса; неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// RespondJSON пишет JSON ответ с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondError пишет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondAllocationError отвечает 409 с категорией и временем, если err означает,
// что бронирование не помещается (нет ресурса или сотрудник недоступен).
// Возвращает false, если err другого типа.
func RespondAllocationError(w http.ResponseWriter, err error, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}

	var noResource *domain.NoResourceAvailableError
	if errors.As(err, &noResource) {
		iv := noResource.Interval.In(loc)
		RespondJSON(w, http.StatusConflict, ConflictResponse{
			Error:     fmt.Sprintf(msgNoResource, noResource.Category, iv),
			Reason:    ReasonNoResourceAvailable,
			Category:  string(noResource.Category),
			BookingID: noResource.BookingID,
			Date:      iv.Start.Format(domain.DateFormat),
			StartTime: iv.Start.Format(domain.TimeFormat),
			EndTime:   iv.End.Format(domain.TimeFormat),
		})
		return true
	}

	var staff *domain.StaffUnavailableError
	if errors.As(err, &staff) {
		iv := staff.Interval.In(loc)
		msg := fmt.Sprintf(msgStaffBusy, staff.StaffID, iv)
		if staff.Reason == domain.ReasonShiftAbsence {
			msg = fmt.Sprintf(msgStaffAbsent, staff.StaffID, iv.Start.Format(domain.DateFormat))
		}
		RespondJSON(w, http.StatusConflict, ConflictResponse{
			Error:     msg,
			Reason:    ReasonStaffUnavailable,
			StaffID:   staff.StaffID,
			Date:      iv.Start.Format(domain.DateFormat),
			StartTime: iv.Start.Format(domain.TimeFormat),
			EndTime:   iv.End.Format(domain.TimeFormat),
		})
		return true
	}

	return false
}

package set_shift

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getShifts "github.com/Endo1018/salon-reservation-sub000/internal/api/handlers/get_shifts"
	"github.com/Endo1018/salon-reservation-sub000/internal/infra/storage/memory"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/shifts"
	"github.com/Endo1018/salon-reservation-sub000/pkg/logger"
)

type roster []string

func (r roster) InRoster(id string) bool {
	for _, s := range r {
		if s == id {
			return true
		}
	}
	return false
}

func TestHandler_SetThenList(t *testing.T) {
	log := logger.NewNop()
	store := memory.NewStore()
	svc := shifts.NewService(store.Shifts(time.UTC), roster{"anna"}, time.UTC, log)

	router := mux.NewRouter()
	router.HandleFunc("/staff/shifts", getShifts.NewHandler(svc, time.UTC, log).Handle).Methods(http.MethodGet)
	router.HandleFunc("/staff/{staffId}/shifts/{date}", NewHandler(svc, time.UTC, log).Handle).Methods(http.MethodPut)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/staff/anna/shifts/2025-06-02", strings.NewReader(`{"status":"leave"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/staff/shifts?date=2025-06-02", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var list []shifts.ShiftResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Equal(t, []shifts.ShiftResponse{{StaffID: "anna", Date: "2025-06-02", Status: "leave"}}, list)
}

func TestHandler_Errors(t *testing.T) {
	log := logger.NewNop()
	store := memory.NewStore()
	svc := shifts.NewService(store.Shifts(time.UTC), roster{"anna"}, time.UTC, log)

	router := mux.NewRouter()
	router.HandleFunc("/staff/{staffId}/shifts/{date}", NewHandler(svc, time.UTC, log).Handle)

	tests := []struct {
		url    string
		body   string
		status int
	}{
		{"/staff/anna/shifts/02-06-2025", `{"status":"off"}`, http.StatusBadRequest},
		{"/staff/anna/shifts/2025-06-02", `{"status":"sick"}`, http.StatusBadRequest},
		{"/staff/zoe/shifts/2025-06-02", `{"status":"off"}`, http.StatusNotFound},
		{"/staff/anna/shifts/2025-06-02", `not json`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, tt.url, strings.NewReader(tt.body)))
		assert.Equal(t, tt.status, w.Code, tt.url+" "+tt.body)
	}
}

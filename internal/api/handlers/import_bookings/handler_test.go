package import_bookings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	importBookings "github.com/Endo1018/salon-reservation-sub000/internal/usecase/import_bookings"
	"github.com/Endo1018/salon-reservation-sub000/pkg/logger"
)

const sampleCSV = "date,start_time,service_id\n2025-06-02,10:00,hs60\n"

type stubUseCase struct {
	got    *importBookings.Request
	body   string
	report *importBookings.Report
	err    error
}

func (s *stubUseCase) Execute(_ context.Context, req *importBookings.Request) (*importBookings.Report, error) {
	s.got = req
	data, err := io.ReadAll(req.Source)
	if err != nil {
		return nil, err
	}
	s.body = string(data)
	return s.report, s.err
}

func TestHandler_RawBody(t *testing.T) {
	uc := &stubUseCase{report: &importBookings.Report{Rows: 1, Imported: 1, Bookings: 1, DryRun: true}}
	h := NewHandler(uc, logger.NewNop())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/imports?strict=true&dryRun=1", strings.NewReader(sampleCSV))
	r.Header.Set("Content-Type", "text/csv")
	h.Handle(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sampleCSV, uc.body)
	assert.True(t, uc.got.Strict)
	assert.True(t, uc.got.DryRun)
	assert.False(t, uc.got.Replace)

	var body ReportResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, 1, body.Imported)
	assert.NotNil(t, body.RowErrors)
}

func TestHandler_Multipart(t *testing.T) {
	uc := &stubUseCase{report: &importBookings.Report{Rows: 1, Imported: 1}}
	h := NewHandler(uc, logger.NewNop())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "bookings.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/imports?replace=true", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	h.Handle(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sampleCSV, uc.body)
	assert.True(t, uc.got.Replace)
}

func TestHandler_Errors(t *testing.T) {
	rejected := &importBookings.Report{Rows: 2, Imported: 0, RowErrors: []importBookings.RowError{{Line: 3, Message: "unknown service \"x\""}}}

	tests := []struct {
		name   string
		query  string
		report *importBookings.Report
		err    error
		status int
	}{
		{"bad flag", "?strict=maybe", nil, nil, http.StatusBadRequest},
		{"invalid file", "", nil, fmt.Errorf("%w: empty file", importBookings.ErrInvalidFile), http.StatusBadRequest},
		{"strict rows", "?strict=true", rejected, fmt.Errorf("%w: 1 invalid row(s)", importBookings.ErrInvalidRows), http.StatusUnprocessableEntity},
		{"conflict", "", nil, importBookings.ErrSlotConflict, http.StatusConflict},
		{"internal", "", nil, importBookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&stubUseCase{report: tt.report, err: tt.err}, logger.NewNop())
			w := httptest.NewRecorder()
			h.Handle(w, httptest.NewRequest(http.MethodPost, "/imports"+tt.query, strings.NewReader(sampleCSV)))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandler_StrictReportBody(t *testing.T) {
	report := &importBookings.Report{Rows: 2, RowErrors: []importBookings.RowError{{Line: 3, Message: "bad date"}}}
	h := NewHandler(&stubUseCase{report: report, err: importBookings.ErrInvalidRows}, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodPost, "/imports?strict=true", strings.NewReader(sampleCSV)))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body ReportResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, []RowErrorResponse{{Line: 3, Message: "bad date"}}, body.RowErrors)
}

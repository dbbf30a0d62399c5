package import_bookings

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Endo1018/salon-reservation-sub000/internal/api/handlers"
	"github.com/Endo1018/salon-reservation-sub000/internal/api/middleware"
	importBookings "github.com/Endo1018/salon-reservation-sub000/internal/usecase/import_bookings"
)

const (
	// maxUploadBytes ограничение размера загружаемого файла
	maxUploadBytes = 16 << 20
	formFileField  = "file"

	msgInvalidFlag   = "параметры strict, replace и dryRun должны быть true или false"
	msgInvalidUpload = "не удалось прочитать файл импорта"
	msgInvalidFile   = "файл не является CSV с колонками date, start_time, service_id"
	msgInvalidRows   = "файл содержит некорректные строки"
	msgSlotConflict  = "интервал занят параллельной записью, повторите импорт"
)

type Handler struct {
	useCase ImportBookingsUseCase
	logger  Logger
}

func NewHandler(useCase ImportBookingsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/imports?strict=&replace=&dryRun=
// Тело: CSV целиком или multipart-форма с полем file
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	strict, errStrict := parseFlag(r, "strict")
	replace, errReplace := parseFlag(r, "replace")
	dryRun, errDryRun := parseFlag(r, "dryRun")
	if errStrict != nil || errReplace != nil || errDryRun != nil {
		h.logger.Warn("POST /imports - Invalid flags: %s", r.URL.RawQuery)
		handlers.RespondBadRequest(w, msgInvalidFlag)
		return
	}

	source, closeSource, err := h.source(w, r)
	if err != nil {
		h.logger.Warn("POST /imports - Invalid upload: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUpload)
		return
	}
	defer closeSource()

	report, err := h.useCase.Execute(r.Context(), &importBookings.Request{
		Source:  source,
		Strict:  strict,
		Replace: replace,
		DryRun:  dryRun,
	})
	if err != nil {
		switch {
		case errors.Is(err, importBookings.ErrInvalidFile):
			h.logger.Warn("POST /imports - Invalid file: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFile)

		case errors.Is(err, importBookings.ErrInvalidRows):
			h.logger.Warn("POST /imports - Rejected in strict mode: %v", err)
			if report != nil {
				handlers.RespondJSON(w, http.StatusUnprocessableEntity, FromUseCaseReport(report))
				return
			}
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidRows)

		case errors.Is(err, importBookings.ErrSlotConflict):
			h.logger.Warn("POST /imports - Slot conflict: %v", err)
			handlers.RespondConflict(w, msgSlotConflict)

		default:
			h.logger.Error("POST /imports - Failed to import: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /imports - Imported %d/%d rows (%d bookings, %d overflow) by user=%s, dryRun=%t",
		report.Imported, report.Rows, report.Bookings, report.Overflow, userID, report.DryRun)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseReport(report))
}

// source возвращает поток CSV из тела запроса или из multipart-поля
func (h *Handler) source(w http.ResponseWriter, r *http.Request) (io.Reader, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.Body, func() {}, nil
	}

	file, _, err := r.FormFile(formFileField)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { _ = file.Close() }, nil
}

func parseFlag(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	cancelBookingHandler "github.com/Endo1018/salon-reservation-sub000/internal/api/handlers/cancel_booking"
	clearBookingsHandler "github.com/Endo1018/salon-reservation-sub000/internal/api/handlers/clear_bookings"
	confirmBookingHandler "github.com/Endo1018/salon-reservation-sub000/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/Endo1018/salon-reservation-sub000/internal/api/handlers/create_booking"
	createComboBookingHandler "github.com/Endo1018/salon-reservation-sub000/internal/api/handlers/create_combo_booking"
	editBookingHandler "github.com/Endo1018/salon-reservation-sub000/internal/api/handlers/edit_booking"
	getAvailableSlotsHandler "github.com/Endo1018/salon-reservation-sub000/internal/api/handlers/get_available_slots"
	getAvailableStaffHandler "github.com/Endo1018/salon-reservation-sub000/internal/api/handlers/get_available_staff"
	getBookingHandler "github.com/Endo1018/salon-reservation-sub000/internal/api/handlers/get_booking"
	getDayBookingsHandler "github.com/Endo1018/salon-reservation-sub000/internal/api/handlers/get_day_bookings"
	getShiftsHandler "github.com/Endo1018/salon-reservation-sub000/internal/api/handlers/get_shifts"
	importBookingsHandler "github.com/Endo1018/salon-reservation-sub000/internal/api/handlers/import_bookings"
	setShiftHandler "github.com/Endo1018/salon-reservation-sub000/internal/api/handlers/set_shift"
	"github.com/Endo1018/salon-reservation-sub000/internal/api/middleware"
	"github.com/Endo1018/salon-reservation-sub000/internal/config"
	"github.com/Endo1018/salon-reservation-sub000/internal/infra/storage/booking"
	"github.com/Endo1018/salon-reservation-sub000/internal/infra/storage/memory"
	"github.com/Endo1018/salon-reservation-sub000/internal/infra/storage/shift"
	"github.com/Endo1018/salon-reservation-sub000/internal/jobs/holdexpiry"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/allocation"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/availability"
	bookingsService "github.com/Endo1018/salon-reservation-sub000/internal/service/bookings"
	shiftsService "github.com/Endo1018/salon-reservation-sub000/internal/service/shifts"
	createBookingUC "github.com/Endo1018/salon-reservation-sub000/internal/usecase/create_booking"
	editBookingUC "github.com/Endo1018/salon-reservation-sub000/internal/usecase/edit_booking"
	getAvailableSlotsUC "github.com/Endo1018/salon-reservation-sub000/internal/usecase/get_available_slots"
	getAvailableStaffUC "github.com/Endo1018/salon-reservation-sub000/internal/usecase/get_available_staff"
	importBookingsUC "github.com/Endo1018/salon-reservation-sub000/internal/usecase/import_bookings"
	"github.com/Endo1018/salon-reservation-sub000/pkg/dbmetrics"
	"github.com/Endo1018/salon-reservation-sub000/pkg/logger"
	"github.com/Endo1018/salon-reservation-sub000/pkg/metrics"
	"github.com/Endo1018/salon-reservation-sub000/pkg/txmanager"
)

// bookingStore объединяет то, что use cases и сервисы требуют от хранилища бронирований
type bookingStore interface {
	createBookingUC.BookingRepository
	editBookingUC.BookingRepository
	importBookingsUC.BookingRepository
	bookingsService.BookingRepository
	availability.BookingReader
}

// shiftStore хранилище смен
type shiftStore interface {
	shiftsService.ShiftRepository
	availability.ShiftReader
}

// txManager общий интерфейс postgres и in-memory менеджеров транзакций
type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting salon reservation service...")

	location, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid salon timezone: %v", err)
	}
	resources, services, err := cfg.Catalogs()
	if err != nil {
		log.Fatal("Invalid catalog: %v", err)
	}
	hours, err := cfg.SalonHours()
	if err != nil {
		log.Fatal("Invalid salon hours: %v", err)
	}
	log.Info("Catalog loaded: %d categories, %d resources, %d staff, timezone=%s",
		len(resources.Categories()), len(resources.Resources()), len(cfg.Staff.Roster), location)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище
	var (
		bookingRepository bookingStore
		shiftRepository   shiftStore
		txMgr             txManager
	)

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		bookingRepository = store.Bookings()
		shiftRepository = store.Shifts(location)
		txMgr = memory.NewTxManager(store)
		log.Warn("Using in-memory storage, data is lost on restart")

	default:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		// При выключенных метриках обёртка работает как прокси
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)

		bookingRepository = booking.NewRepository(wrappedDB)
		shiftRepository = shift.NewRepository(wrappedDB, location)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	}

	// Инициализируем сервисы
	oracle := availability.NewService(bookingRepository, shiftRepository, cfg.Staff.Roster, location, log)
	planner := allocation.NewPlanner(oracle, resources, metricsCollector, log)
	// Подбор слотов ничего не размещает, поэтому в метрики размещения не пишет
	slotPlanner := allocation.NewPlanner(oracle, resources, nil, log)

	bookingSvc := bookingsService.NewService(bookingRepository, txMgr, location, log)
	shiftSvc := shiftsService.NewService(shiftRepository, oracle, location, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(bookingRepository, planner, services, oracle, txMgr, location, log)
	editBookingUseCase := editBookingUC.NewUseCase(bookingRepository, planner, services, oracle, txMgr, location, log)
	getAvailableStaffUseCase := getAvailableStaffUC.NewUseCase(oracle, location, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(oracle, slotPlanner, resources, services, hours, location, log)
	importBookingsUseCase := importBookingsUC.NewUseCase(
		bookingRepository,
		oracle,
		func(o allocation.Oracle) importBookingsUC.Planner {
			return allocation.NewPlanner(o, resources, metricsCollector, log)
		},
		services,
		oracle,
		txMgr,
		location,
		log,
	)

	// Фоновая отмена просроченных холдов
	holdJob, err := holdexpiry.New(bookingSvc, cfg.HoldTTL(), cfg.Salon.HoldSweepSchedule, location, log)
	if err != nil {
		log.Fatal("Failed to schedule hold expiry: %v", err)
	}
	holdJob.Start()

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, location, log)
	createComboBooking := createComboBookingHandler.NewHandler(createBookingUseCase, location, log)
	editBooking := editBookingHandler.NewHandler(editBookingUseCase, location, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	getDayBookings := getDayBookingsHandler.NewHandler(bookingSvc, location, log)
	clearBookings := clearBookingsHandler.NewHandler(bookingSvc, location, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAvailableStaff := getAvailableStaffHandler.NewHandler(getAvailableStaffUseCase, log)
	getShifts := getShiftsHandler.NewHandler(shiftSvc, location, log)
	setShift := setShiftHandler.NewHandler(shiftSvc, location, log)
	importBookings := importBookingsHandler.NewHandler(importBookingsUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/combo", createComboBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings", getDayBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", editBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)

	// --- Доступность ---
	api.HandleFunc("/services/{serviceId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/staff/available", getAvailableStaff.Handle).Methods(http.MethodGet)

	// --- Смены ---
	api.HandleFunc("/staff/shifts", getShifts.Handle).Methods(http.MethodGet)
	api.HandleFunc("/staff/{staffId}/shifts/{date}", setShift.Handle).Methods(http.MethodPut)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/imports", importBookings.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", clearBookings.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	holdJob.Stop(shutdownCtx)

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

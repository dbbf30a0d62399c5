package import_bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	bookingRepo "github.com/Endo1018/salon-reservation-sub000/internal/infra/storage/booking"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/allocation"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/availability"
	"github.com/Endo1018/salon-reservation-sub000/pkg/txmanager"
)

// insertBatchSize ограничивает число строк в одном INSERT
const insertBatchSize = 1000

// UseCase use case пакетного импорта исторических бронирований.
// Все строки размещаются поверх общего леджера и записываются одной транзакцией.
// Исчерпанный пул даёт overflow-ресурс, занятый сотрудник снимается с этапа.
type UseCase struct {
	bookingRepo BookingRepository
	oracle      Oracle
	newPlanner  PlannerFactory
	services    ServiceCatalog
	roster      StaffRoster
	txManager   TransactionManager
	location    *time.Location
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	oracle Oracle,
	newPlanner PlannerFactory,
	services ServiceCatalog,
	roster StaffRoster,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo: bookingRepo,
		oracle:      oracle,
		newPlanner:  newPlanner,
		services:    services,
		roster:      roster,
		txManager:   txManager,
		location:    location,
		logger:      logger,
	}
}

// Execute импортирует файл. В отчёте возвращаются и отброшенные строки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Report, error) {
	uc.logger.Info("ImportBookings: strict=%t, replace=%t, dryRun=%t", req.Strict, req.Replace, req.DryRun)

	// 1. Разбор файла
	rows, rowErrors, err := parseRows(req.Source)
	if err != nil {
		uc.logger.Warn("ImportBookings: %v", err)
		return nil, err
	}

	report := &Report{Rows: len(rows) + len(rowErrors), DryRun: req.DryRun, RowErrors: rowErrors}

	// 2. Проверка услуг и сотрудников
	rows = uc.checkRows(rows, report)

	if req.Strict && len(report.RowErrors) > 0 {
		uc.logger.Warn("ImportBookings: %d invalid row(s), strict mode", len(report.RowErrors))
		return report, fmt.Errorf("%w: %d invalid row(s)", ErrInvalidRows, len(report.RowErrors))
	}
	if len(rows) == 0 {
		uc.logger.Info("ImportBookings: nothing to import")
		return report, nil
	}

	// 3. Размещение и запись одной транзакцией; при повторе счётчики начинаются заново
	checked := *report
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		*report = checked
		return uc.importRows(txCtx, rows, req, report)
	})
	if err != nil {
		return nil, uc.mapError(err)
	}

	uc.logger.Info("ImportBookings: rows=%d imported=%d bookings=%d overflow=%d staffDropped=%d replaced=%d rejected=%d",
		report.Rows, report.Imported, report.Bookings, report.Overflow, report.StaffDropped, report.Replaced, len(report.RowErrors))

	return report, nil
}

// checkRows отбрасывает строки с неизвестной услугой и снимает неизвестных сотрудников
func (uc *UseCase) checkRows(rows []Row, report *Report) []Row {
	valid := rows[:0]
	for _, row := range rows {
		svc, ok := uc.services.Get(row.ServiceID)
		if !ok {
			report.RowErrors = append(report.RowErrors, RowError{
				Line:    row.Line,
				Message: fmt.Sprintf("unknown service %q", row.ServiceID),
			})
			continue
		}
		if !svc.IsCombo() {
			row.StaffIDB = nil
		}
		for _, staff := range []**string{&row.StaffID, &row.StaffIDB} {
			if *staff != nil && !uc.roster.InRoster(**staff) {
				uc.logger.Warn("ImportBookings: line %d: staff %s is not in the roster, leaving unassigned", row.Line, **staff)
				*staff = nil
				report.StaffDropped++
			}
		}
		valid = append(valid, row)
	}
	return valid
}

func (uc *UseCase) importRows(ctx context.Context, rows []Row, req *Request, report *Report) error {
	ledger := availability.NewLedger()
	planner := uc.newPlanner(uc.oracle.WithLedger(ledger))

	from, to := uc.dateRange(rows)
	if req.Replace {
		// существующие бронирования диапазона не мешают размещению пакета
		existing, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{From: &from, To: &to, IncludeInactive: true})
		if err != nil {
			return err
		}
		for _, b := range existing {
			ledger.Remove(b.ID)
		}
	}

	for _, row := range rows {
		svc, _ := uc.services.Get(row.ServiceID)
		start, err := row.StartTime.On(row.Date, uc.location)
		if err != nil {
			return fmt.Errorf("line %d: %w", row.Line, err)
		}

		legs, dropped, err := uc.planRow(ctx, planner, svc, start, row)
		if err != nil {
			return fmt.Errorf("line %d: %w", row.Line, err)
		}
		for _, leg := range legs {
			leg.ClientName = row.ClientName
			if leg.IsOverflow() {
				report.Overflow++
				uc.logger.Warn("ImportBookings: line %d: no free %s for %s, placed on overflow", row.Line, leg.Category, leg.Interval())
			}
		}
		ledger.Put(legs...)

		report.Imported++
		report.Bookings += len(legs)
		report.StaffDropped += dropped
	}

	if req.DryRun {
		return nil
	}

	if req.Replace {
		deleted, err := uc.bookingRepo.DeleteByRange(ctx, from, to)
		if err != nil {
			return err
		}
		report.Replaced = deleted
	}

	pending := ledger.Bookings()
	for len(pending) > 0 {
		n := min(insertBatchSize, len(pending))
		if err := uc.bookingRepo.BulkCreate(ctx, pending[:n]); err != nil {
			return err
		}
		pending = pending[n:]
	}
	return nil
}

// planRow размещает строку; возвращает этапы и число снятых сотрудников
func (uc *UseCase) planRow(ctx context.Context, planner Planner, svc *domain.ServiceDefinition, start time.Time, row Row) ([]*domain.Booking, int, error) {
	if !svc.IsCombo() {
		plan, err := planner.PlanSingle(ctx, svc, start, allocation.SingleOptions{
			ResourceHint:         row.ResourceHint,
			StaffID:              row.StaffID,
			AllowOverflow:        true,
			DropUnavailableStaff: true,
		})
		if err != nil {
			return nil, 0, err
		}
		return []*domain.Booking{plan.Booking}, len(plan.DroppedStaff), nil
	}

	plan, err := planner.PlanCombo(ctx, svc, start, allocation.ComboOptions{
		Order:                row.Order,
		ResourceHint:         row.ResourceHint,
		StaffA:               row.StaffID,
		StaffB:               row.StaffIDB,
		AllowOverflow:        true,
		DropUnavailableStaff: true,
	})
	if err != nil {
		return nil, 0, err
	}
	return []*domain.Booking{plan.Legs[0], plan.Legs[1]}, len(plan.DroppedStaff), nil
}

// dateRange возвращает полуинтервал салонных суток, покрывающий все строки
func (uc *UseCase) dateRange(rows []Row) (time.Time, time.Time) {
	var from, to time.Time
	for i, row := range rows {
		y, m, d := row.Date.Date()
		dayStart := time.Date(y, m, d, 0, 0, 0, 0, uc.location)
		dayEnd := dayStart.AddDate(0, 0, 1)
		if i == 0 || dayStart.Before(from) {
			from = dayStart
		}
		if i == 0 || dayEnd.After(to) {
			to = dayEnd
		}
	}
	return from, to
}

func (uc *UseCase) mapError(err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrSlotConflict), errors.Is(err, txmanager.ErrConflict),
		errors.Is(err, txmanager.ErrConstraint):
		uc.logger.Warn("ImportBookings: concurrent write conflict: %v", err)
		return fmt.Errorf("%w: %v", ErrSlotConflict, err)

	default:
		uc.logger.Error("ImportBookings: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

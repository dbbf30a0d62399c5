package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/allocation"
	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

// UseCase use case для получения сетки времён, на которые можно записать услугу.
// Сетка носит рекомендательный характер: при записи размещение выполняется заново.
type UseCase struct {
	oracle       ResourceOracle
	planner      ComboPlanner
	resources    ResourceCatalog
	services     ServiceCatalog
	hours        *domain.SalonHours
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	oracle ResourceOracle,
	planner ComboPlanner,
	resources ResourceCatalog,
	services ServiceCatalog,
	hours *domain.SalonHours,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		oracle:       oracle,
		planner:      planner,
		resources:    resources,
		services:     services,
		hours:        hours,
		timeProvider: &RealTimeProvider{},
		location:     location,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%s, date=%s", req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время салона
	now := uc.timeProvider.Now().In(uc.location)

	// 3. Получаем услугу
	svc, ok := uc.services.Get(req.ServiceID)
	if !ok {
		uc.logger.Warn("GetAvailableSlots: service id=%s not found", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Валидация даты
	if err := validateDate(req.Date, now, uc.hours.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	resp := &Response{Date: req.Date, ServiceID: svc.ID, UnitPrice: svc.UnitPrice, Slots: []domain.AvailableSlot{}}

	// 5. Рабочие часы на дату
	schedule := uc.hours.On(req.Date)
	if !schedule.IsOpen() {
		uc.logger.Info("GetAvailableSlots: salon is closed on %s", req.Date.Format(domain.DateFormat))
		return resp, nil
	}

	// 6. Времена начала
	starts, err := generateStartTimes(schedule, uc.hours.SlotStepMinutes, svc.DurationMinutes,
		req.Date, now, uc.hours.MinBookingNoticeMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate start times: %v", err)
		return nil, fmt.Errorf("%w: failed to generate start times: %v", ErrInternal, err)
	}

	// 7. Доступность на каждое время
	for _, st := range starts {
		slot, err := uc.slotAt(ctx, svc, req.Date, st)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: service=%s at %s: %v", svc.ID, st, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		resp.Slots = append(resp.Slots, slot)
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for service=%s, date=%s",
		len(resp.Slots), svc.ID, req.Date.Format(domain.DateFormat))

	return resp, nil
}

// slotAt рассчитывает доступность услуги с началом в st
func (uc *UseCase) slotAt(ctx context.Context, svc *domain.ServiceDefinition, date time.Time, st types.TimeString) (domain.AvailableSlot, error) {
	slot := domain.AvailableSlot{StartTime: st, DurationMinutes: svc.DurationMinutes}

	start, err := st.On(date, uc.location)
	if err != nil {
		return slot, err
	}

	if !svc.IsCombo() {
		pool := uc.resources.Pool(svc.Category)
		slot.TotalSpots = len(pool)
		slot.AvailableSpots, err = countFree(ctx, uc.oracle, pool, domain.NewInterval(start, svc.DurationMinutes))
		return slot, err
	}

	slot.TotalSpots = min(len(uc.resources.Pool(svc.Combo.LegA.Category)), len(uc.resources.Pool(svc.Combo.LegB.Category)))

	plan, err := uc.planner.PlanCombo(ctx, svc, start, allocation.ComboOptions{})
	if err != nil {
		if domain.IsAllocationFailure(err) {
			return slot, nil
		}
		return slot, err
	}
	slot.Order = plan.Order

	// свободных мест столько, сколько ресурсов у более загруженного этапа
	slot.AvailableSpots = slot.TotalSpots
	for _, leg := range plan.Legs {
		free, err := countFree(ctx, uc.oracle, uc.resources.Pool(leg.Category), leg.Interval())
		if err != nil {
			return slot, err
		}
		slot.AvailableSpots = min(slot.AvailableSpots, free)
	}
	return slot, nil
}

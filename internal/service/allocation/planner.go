package allocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
)

// Planner рассчитывает размещение бронирований (одиночных, комбо и правок цепочек).
// Ничего не записывает: результат применяется вызывающим кодом в одной транзакции.
type Planner struct {
	oracle    Oracle
	alloc     *Allocator
	resources *domain.ResourceCatalog
	metrics   Metrics
	logger    Logger
	newID     func() string
}

// NewPlanner создает планировщик поверх оракула доступности; metrics может быть nil
func NewPlanner(oracle Oracle, resources *domain.ResourceCatalog, metrics Metrics, logger Logger) *Planner {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Planner{
		oracle:    oracle,
		alloc:     NewAllocator(oracle, resources, metrics, logger),
		resources: resources,
		metrics:   metrics,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Allocator возвращает аллокатор планировщика
func (p *Planner) Allocator() *Allocator {
	return p.alloc
}

// SingleOptions параметры размещения одиночной услуги
type SingleOptions struct {
	ResourceHint string
	StaffID      *string
	Exclude      []string

	// AllowOverflow разрешает overflow-ресурс при исчерпанном пуле (импорт)
	AllowOverflow bool
	// DropUnavailableStaff снимает занятого сотрудника вместо ошибки (импорт)
	DropUnavailableStaff bool
}

// SinglePlan результат размещения одиночной услуги
type SinglePlan struct {
	Booking      *domain.Booking
	DroppedStaff []*domain.StaffUnavailableError
}

// PlanSingle размещает одиночную услугу с началом в start
func (p *Planner) PlanSingle(ctx context.Context, svc *domain.ServiceDefinition, start time.Time, opts SingleOptions) (*SinglePlan, error) {
	if svc.IsCombo() {
		return nil, fmt.Errorf("%w: service %s is a combo", ErrInvalidInput, svc.ID)
	}

	iv := domain.NewInterval(start, svc.DurationMinutes)

	resourceID, err := p.place(ctx, svc.Category, iv, opts.ResourceHint, opts.AllowOverflow, opts.Exclude)
	if err != nil {
		return nil, err
	}

	plan := &SinglePlan{}
	staffID, dropped, err := p.assignStaff(ctx, opts.StaffID, iv, opts.Exclude, opts.DropUnavailableStaff)
	if err != nil {
		return nil, err
	}
	if dropped != nil {
		plan.DroppedStaff = append(plan.DroppedStaff, dropped)
	}

	plan.Booking = &domain.Booking{
		ID:         p.newID(),
		ResourceID: resourceID,
		Category:   svc.Category,
		StaffID:    staffID,
		StartAt:    iv.Start,
		EndAt:      iv.End,
		Status:     domain.StatusConfirmed,
		ServiceID:  svc.ID,
	}
	return plan, nil
}

// ComboOptions параметры размещения комбо-услуги
type ComboOptions struct {
	// Order принудительный порядок этапов; пустой или auto - сначала прямой, затем обратный
	Order domain.LegOrder
	// ResourceHint применяется к первому по времени этапу той же категории
	ResourceHint string
	// StaffA и StaffB назначаются на этапы A и B независимо от их порядка
	StaffA  *string
	StaffB  *string
	Exclude []string

	AllowOverflow        bool
	DropUnavailableStaff bool
}

// ComboPlan два этапа комбо в хронологическом порядке с общим LinkID
type ComboPlan struct {
	LinkID       string
	Order        domain.LegOrder
	Legs         [2]*domain.Booking
	DroppedStaff []*domain.StaffUnavailableError
}

// Primary возвращает основной этап
func (c *ComboPlan) Primary() *domain.Booking {
	if c.Legs[0].IsPrimaryLeg {
		return c.Legs[0]
	}
	return c.Legs[1]
}

// comboAttempt внутренние параметры одной попытки размещения комбо
type comboAttempt struct {
	linkID  string
	hint    string
	ids     [2]string // ID по хронологической позиции; пустой - новый ID
	staffAt func(pos int, leg domain.PlannedLeg) *string
	exclude []string

	allowOverflow bool
	dropStaff     bool
}

// PlanCombo размещает комбо-услугу: прямой порядок этапов, при неудаче -
// полный пересчёт в обратном порядке. Если не подошёл ни один порядок,
// возвращается ошибка прямого порядка.
func (p *Planner) PlanCombo(ctx context.Context, svc *domain.ServiceDefinition, start time.Time, opts ComboOptions) (*ComboPlan, error) {
	if !svc.IsCombo() {
		return nil, ErrNotCombo
	}
	if !opts.Order.Valid() {
		return nil, fmt.Errorf("%w: unknown leg order %q", ErrInvalidInput, opts.Order)
	}

	attempt := comboAttempt{
		linkID: p.newID(),
		hint:   opts.ResourceHint,
		staffAt: func(_ int, leg domain.PlannedLeg) *string {
			if leg.Key == domain.LegB {
				return opts.StaffB
			}
			return opts.StaffA
		},
		exclude:       opts.Exclude,
		allowOverflow: opts.AllowOverflow,
		dropStaff:     opts.DropUnavailableStaff,
	}

	return p.planComboOrders(ctx, svc, start, opts.Order, attempt)
}

func (p *Planner) planComboOrders(ctx context.Context, svc *domain.ServiceDefinition, start time.Time, order domain.LegOrder, attempt comboAttempt) (*ComboPlan, error) {
	orders := []domain.LegOrder{domain.OrderForward, domain.OrderSwapped}
	switch order {
	case domain.OrderForward:
		orders = orders[:1]
	case domain.OrderSwapped:
		orders = orders[1:]
	}

	var firstErr error
	for _, o := range orders {
		plan, err := p.tryCombo(ctx, svc, start, o, attempt)
		if err == nil {
			p.metrics.RecordComboOrder(string(o))
			if o == domain.OrderSwapped && len(orders) > 1 {
				p.logger.Info("PlanCombo: service=%s start=%s placed in swapped order",
					svc.ID, start.Format(time.RFC3339))
			}
			return plan, nil
		}
		if !domain.IsAllocationFailure(err) {
			return nil, err
		}
		if firstErr == nil {
			firstErr = err
		}
		p.logger.Info("PlanCombo: service=%s order=%s failed: %v", svc.ID, o, err)
	}

	p.metrics.RecordComboOrder("none")
	return nil, firstErr
}

// tryCombo полностью пересчитывает оба этапа для заданного порядка
func (p *Planner) tryCombo(ctx context.Context, svc *domain.ServiceDefinition, start time.Time, order domain.LegOrder, attempt comboAttempt) (*ComboPlan, error) {
	plan := &ComboPlan{LinkID: attempt.linkID, Order: order}

	hintCategory, hintKnown := p.resources.CategoryOf(attempt.hint)
	hintUsed := false
	cursor := start

	for pos, leg := range svc.Combo.Sequence(order) {
		iv := domain.NewInterval(cursor, leg.Spec.DurationMinutes)

		hint := ""
		if !hintUsed && hintKnown && hintCategory == leg.Spec.Category {
			hint = attempt.hint
			hintUsed = true
		}

		id := attempt.ids[pos]
		if id == "" {
			id = p.newID()
		}

		resourceID, err := p.place(ctx, leg.Spec.Category, iv, hint, attempt.allowOverflow, attempt.exclude)
		if err != nil {
			return nil, withBookingID(err, attempt.ids[pos])
		}

		staffID, dropped, err := p.assignStaff(ctx, attempt.staffAt(pos, leg), iv, attempt.exclude, attempt.dropStaff)
		if err != nil {
			return nil, err
		}
		if dropped != nil {
			plan.DroppedStaff = append(plan.DroppedStaff, dropped)
		}

		link := attempt.linkID
		plan.Legs[pos] = &domain.Booking{
			ID:           id,
			ResourceID:   resourceID,
			Category:     leg.Spec.Category,
			StaffID:      staffID,
			StartAt:      iv.Start,
			EndAt:        iv.End,
			Status:       domain.StatusConfirmed,
			ComboLinkID:  &link,
			IsPrimaryLeg: leg.Key == svc.Combo.Primary,
			ServiceID:    svc.ID,
		}

		cursor = iv.End
	}

	return plan, nil
}

// place выбирает ресурс категории; overflow только при allowOverflow
func (p *Planner) place(ctx context.Context, category domain.Category, iv domain.Interval, hint string, allowOverflow bool, exclude []string) (string, error) {
	if allowOverflow {
		return p.alloc.ResolveOrOverflow(ctx, category, iv, hint, exclude...)
	}
	return p.alloc.Resolve(ctx, category, iv, hint, exclude...)
}

// assignStaff проверяет сотрудника на интервале. При drop занятый сотрудник
// снимается (возвращается причина), иначе причина возвращается как ошибка.
func (p *Planner) assignStaff(ctx context.Context, staffID *string, iv domain.Interval, exclude []string, drop bool) (*string, *domain.StaffUnavailableError, error) {
	if staffID == nil {
		return nil, nil, nil
	}

	reason, err := p.oracle.CheckStaff(ctx, *staffID, iv, exclude...)
	if err != nil {
		return nil, nil, err
	}
	if reason == nil {
		id := *staffID
		return &id, nil, nil
	}
	if drop {
		p.logger.Warn("assignStaff: %v, leaving unassigned", reason)
		return nil, reason, nil
	}
	return nil, nil, reason
}

func withBookingID(err error, bookingID string) error {
	var noResource *domain.NoResourceAvailableError
	if bookingID != "" && errors.As(err, &noResource) {
		return &domain.NoResourceAvailableError{
			Category:  noResource.Category,
			Interval:  noResource.Interval,
			BookingID: bookingID,
		}
	}
	return err
}

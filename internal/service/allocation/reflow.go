package allocation

import (
	"context"
	"fmt"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/pkg/ptr"
)

// Результаты пересчёта для метрик
const (
	reflowPlanned  = "planned"
	reflowRejected = "rejected"
	reflowFailed   = "failed"
)

// ReflowInput правка одного этапа группы бронирований
type ReflowInput struct {
	// Group все этапы группы (отменённые отбрасываются)
	Group []*domain.Booking
	// AnchorID редактируемый этап
	AnchorID string
	// Service текущая услуга группы; nil, если неизвестна
	Service *domain.ServiceDefinition

	NewStart           *time.Time
	NewDurationMinutes *int
	NewService         *domain.ServiceDefinition
	// StaffAssignments назначения по ID этапа; nil-значение снимает сотрудника
	StaffAssignments map[string]*string
	// NewLegStaffID сотрудник для этапа, создаваемого при превращении одиночной услуги в комбо
	NewLegStaffID *string
	NewOrder      domain.LegOrder
}

// ReflowPlan проверенный целиком набор изменений группы
type ReflowPlan struct {
	// Group итоговые этапы в хронологическом порядке
	Group   []*domain.Booking
	Updates []*domain.Booking
	Creates []*domain.Booking
	Deletes []string
}

// IsNoop true, если правка ничего не меняет
func (r *ReflowPlan) IsNoop() bool {
	return len(r.Updates) == 0 && len(r.Creates) == 0 && len(r.Deletes) == 0
}

// legDraft пересчитываемый этап
type legDraft struct {
	booking  *domain.Booking
	original *domain.Booking // nil для нового этапа
	interval domain.Interval
}

// PlanReflow пересчитывает интервалы, ресурсы и сотрудников группы после правки.
// Если хоть один этап не размещается, возвращается ошибка и ничего не меняется.
func (p *Planner) PlanReflow(ctx context.Context, in ReflowInput) (*ReflowPlan, error) {
	plan, err := p.planReflow(ctx, in)
	switch {
	case err == nil:
		p.metrics.RecordReflow(reflowPlanned)
	case domain.IsAllocationFailure(err):
		p.metrics.RecordReflow(reflowRejected)
	default:
		p.metrics.RecordReflow(reflowFailed)
	}
	return plan, err
}

func (p *Planner) planReflow(ctx context.Context, in ReflowInput) (*ReflowPlan, error) {
	legs := activeLegs(in.Group)

	anchorIdx := -1
	for i, leg := range legs {
		if leg.ID == in.AnchorID {
			anchorIdx = i
			break
		}
	}
	if anchorIdx < 0 {
		return nil, domain.ErrGroupNotFound
	}

	if in.NewDurationMinutes != nil {
		d := *in.NewDurationMinutes
		if d < domain.MinServiceDurationMinutes || d > domain.MaxServiceDurationMinutes {
			return nil, fmt.Errorf("%w: duration %d out of range", ErrInvalidInput, d)
		}
	}
	if !in.NewOrder.Valid() {
		return nil, fmt.Errorf("%w: unknown leg order %q", ErrInvalidInput, in.NewOrder)
	}

	exclude := make([]string, len(legs))
	for i, leg := range legs {
		exclude[i] = leg.ID
	}

	serviceChanged := in.NewService != nil && (in.Service == nil || in.NewService.ID != in.Service.ID)
	reorder := in.NewOrder != "" && in.NewOrder != domain.OrderAuto

	var (
		drafts  []*legDraft
		deletes []string
		err     error
	)

	switch {
	case serviceChanged && in.NewService.IsCombo() && len(legs) == 1:
		return p.singleToCombo(ctx, legs[0], in, exclude)

	case serviceChanged:
		drafts, deletes, err = p.changeService(legs, anchorIdx, in)

	case reorder:
		drafts, err = p.reorderChain(legs, anchorIdx, in)

	default:
		drafts = p.shiftChain(legs, anchorIdx, in)
	}
	if err != nil {
		return nil, err
	}

	for _, d := range drafts {
		if assigned, ok := in.StaffAssignments[d.booking.ID]; ok {
			d.booking.StaffID = cloneStaff(assigned)
		}
	}

	if err := p.resolveDrafts(ctx, drafts, exclude); err != nil {
		return nil, err
	}

	return buildPlan(drafts, deletes), nil
}

// shiftChain этапы до якоря сдвигаются на смещение якоря, якорь и последующие
// этапы выстраиваются встык от нового начала якоря
func (p *Planner) shiftChain(legs []*domain.Booking, anchorIdx int, in ReflowInput) []*legDraft {
	anchor := legs[anchorIdx]
	newStart := anchor.StartAt
	if in.NewStart != nil {
		newStart = *in.NewStart
	}
	duration := anchor.Interval().Minutes()
	if in.NewDurationMinutes != nil {
		duration = *in.NewDurationMinutes
	}
	delta := newStart.Sub(anchor.StartAt)

	drafts := make([]*legDraft, len(legs))
	var cursor time.Time
	for i, leg := range legs {
		d := draftOf(leg)
		switch {
		case i < anchorIdx:
			d.interval = leg.Interval().Shift(delta)
		case i == anchorIdx:
			d.interval = domain.NewInterval(newStart, duration)
		default:
			d.interval = domain.NewInterval(cursor, leg.Interval().Minutes())
		}
		if i >= anchorIdx {
			cursor = d.interval.End
		}
		drafts[i] = d
	}
	return drafts
}

// reorderChain выстраивает оба этапа комбо заново от начала группы в новом порядке
func (p *Planner) reorderChain(legs []*domain.Booking, anchorIdx int, in ReflowInput) ([]*legDraft, error) {
	if len(legs) != 2 || in.Service == nil || !in.Service.IsCombo() {
		return nil, fmt.Errorf("%w: leg order applies to two-leg combos only", ErrUnsupportedEdit)
	}

	byKey := legsByKey(legs, in.Service)
	start := legs[0].StartAt
	if in.NewStart != nil {
		start = *in.NewStart
	}

	drafts := make([]*legDraft, 0, 2)
	cursor := start
	for _, pl := range in.Service.Combo.Sequence(in.NewOrder) {
		leg := byKey[pl.Key]
		duration := leg.Interval().Minutes()
		if leg.ID == legs[anchorIdx].ID && in.NewDurationMinutes != nil {
			duration = *in.NewDurationMinutes
		}

		d := draftOf(leg)
		d.interval = domain.NewInterval(cursor, duration)
		d.booking.IsPrimaryLeg = pl.Key == in.Service.Combo.Primary
		drafts = append(drafts, d)
		cursor = d.interval.End
	}
	return drafts, nil
}

// changeService перестраивает группу под новую услугу:
// комбо -> одиночная (лишние этапы удаляются) или комбо -> комбо (с сохранением порядка)
func (p *Planner) changeService(legs []*domain.Booking, anchorIdx int, in ReflowInput) ([]*legDraft, []string, error) {
	svc := in.NewService
	start := legs[0].StartAt
	if in.NewStart != nil {
		start = *in.NewStart
	}

	if !svc.IsCombo() {
		duration := svc.DurationMinutes
		if in.NewDurationMinutes != nil {
			duration = *in.NewDurationMinutes
		}

		anchor := legs[anchorIdx]
		d := draftOf(anchor)
		d.interval = domain.NewInterval(start, duration)
		d.booking.Category = svc.Category
		d.booking.ServiceID = svc.ID
		d.booking.ComboLinkID = nil
		d.booking.IsPrimaryLeg = false

		var deletes []string
		for _, leg := range legs {
			if leg.ID != anchor.ID {
				deletes = append(deletes, leg.ID)
			}
		}
		return []*legDraft{d}, deletes, nil
	}

	if len(legs) != 2 {
		return nil, nil, fmt.Errorf("%w: cannot change service of a %d-leg chain", ErrUnsupportedEdit, len(legs))
	}
	if in.NewDurationMinutes != nil {
		return nil, nil, fmt.Errorf("%w: combo duration is defined by its split", ErrInvalidInput)
	}

	order := in.NewOrder
	var byKey map[domain.LegKey]*domain.Booking
	if in.Service != nil && in.Service.IsCombo() {
		byKey = legsByKey(legs, in.Service)
		if order == "" || order == domain.OrderAuto {
			order = domain.OrderForward
			if byKey[domain.LegB].ID == legs[0].ID {
				order = domain.OrderSwapped
			}
		}
	} else {
		byKey = map[domain.LegKey]*domain.Booking{domain.LegA: legs[0], domain.LegB: legs[1]}
		if order == "" || order == domain.OrderAuto {
			order = domain.OrderForward
		}
	}

	drafts := make([]*legDraft, 0, 2)
	cursor := start
	for _, pl := range svc.Combo.Sequence(order) {
		d := draftOf(byKey[pl.Key])
		d.interval = domain.NewInterval(cursor, pl.Spec.DurationMinutes)
		d.booking.Category = pl.Spec.Category
		d.booking.ServiceID = svc.ID
		d.booking.IsPrimaryLeg = pl.Key == svc.Combo.Primary
		drafts = append(drafts, d)
		cursor = d.interval.End
	}
	return drafts, nil, nil
}

// singleToCombo размещает новую комбо-услугу на месте одиночного бронирования:
// существующая запись становится первым этапом, второй этап создаётся
func (p *Planner) singleToCombo(ctx context.Context, single *domain.Booking, in ReflowInput, exclude []string) (*ReflowPlan, error) {
	if in.NewDurationMinutes != nil {
		return nil, fmt.Errorf("%w: combo duration is defined by its split", ErrInvalidInput)
	}

	start := single.StartAt
	if in.NewStart != nil {
		start = *in.NewStart
	}

	firstStaff := single.StaffID
	if assigned, ok := in.StaffAssignments[single.ID]; ok {
		firstStaff = assigned
	}

	attempt := comboAttempt{
		linkID: p.newID(),
		hint:   single.ResourceID,
		ids:    [2]string{single.ID, ""},
		staffAt: func(pos int, _ domain.PlannedLeg) *string {
			if pos == 0 {
				return firstStaff
			}
			return in.NewLegStaffID
		},
		exclude: exclude,
	}

	combo, err := p.planComboOrders(ctx, in.NewService, start, in.NewOrder, attempt)
	if err != nil {
		return nil, err
	}

	first, second := combo.Legs[0], combo.Legs[1]
	for _, leg := range []*domain.Booking{first, second} {
		leg.Status = single.Status
		leg.ClientName = single.ClientName
	}
	first.CreatedAt = single.CreatedAt

	return &ReflowPlan{
		Group:   []*domain.Booking{first.Clone(), second.Clone()},
		Updates: []*domain.Booking{first},
		Creates: []*domain.Booking{second},
	}, nil
}

// resolveDrafts подбирает ресурсы и проверяет сотрудников для изменившихся этапов.
// Текущий ресурс сохраняется, если он той же категории и свободен.
func (p *Planner) resolveDrafts(ctx context.Context, drafts []*legDraft, exclude []string) error {
	for _, d := range drafts {
		b := d.booking
		moved := d.original == nil ||
			!d.interval.Start.Equal(d.original.StartAt) ||
			!d.interval.End.Equal(d.original.EndAt) ||
			b.Category != d.original.Category

		b.StartAt = d.interval.Start
		b.EndAt = d.interval.End

		if moved {
			hint := ""
			if d.original != nil {
				hint = d.original.ResourceID
			}
			resourceID, err := p.alloc.Resolve(ctx, b.Category, d.interval, hint, exclude...)
			if err != nil {
				return withBookingID(err, b.ID)
			}
			b.ResourceID = resourceID
		}

		staffChanged := d.original == nil || !ptr.Equal(b.StaffID, d.original.StaffID)
		if b.StaffID != nil && (moved || staffChanged) {
			reason, err := p.oracle.CheckStaff(ctx, *b.StaffID, d.interval, exclude...)
			if err != nil {
				return err
			}
			if reason != nil {
				return reason
			}
		}
	}
	return nil
}

func buildPlan(drafts []*legDraft, deletes []string) *ReflowPlan {
	plan := &ReflowPlan{Deletes: deletes}
	for _, d := range drafts {
		switch {
		case d.original == nil:
			plan.Creates = append(plan.Creates, d.booking)
		case changed(d.original, d.booking):
			plan.Updates = append(plan.Updates, d.booking)
		}
		plan.Group = append(plan.Group, d.booking.Clone())
	}
	domain.SortByStart(plan.Group)
	return plan
}

func changed(before, after *domain.Booking) bool {
	return !before.StartAt.Equal(after.StartAt) ||
		!before.EndAt.Equal(after.EndAt) ||
		before.ResourceID != after.ResourceID ||
		before.Category != after.Category ||
		!ptr.Equal(before.StaffID, after.StaffID) ||
		!ptr.Equal(before.ComboLinkID, after.ComboLinkID) ||
		before.IsPrimaryLeg != after.IsPrimaryLeg ||
		before.ServiceID != after.ServiceID
}

func draftOf(leg *domain.Booking) *legDraft {
	return &legDraft{booking: leg.Clone(), original: leg, interval: leg.Interval()}
}

func activeLegs(group []*domain.Booking) []*domain.Booking {
	legs := make([]*domain.Booking, 0, len(group))
	for _, b := range group {
		if b.IsActive() {
			legs = append(legs, b)
		}
	}
	domain.SortByStart(legs)
	return legs
}

// legsByKey сопоставляет этапы частям комбо по флагу основного этапа
func legsByKey(legs []*domain.Booking, svc *domain.ServiceDefinition) map[domain.LegKey]*domain.Booking {
	primary := svc.Combo.Primary
	secondary := domain.LegA
	if primary == domain.LegA {
		secondary = domain.LegB
	}

	out := make(map[domain.LegKey]*domain.Booking, 2)
	for _, leg := range legs {
		if leg.IsPrimaryLeg {
			out[primary] = leg
		} else {
			out[secondary] = leg
		}
	}
	// данные без флага основного этапа: порядок по времени
	if len(out) < 2 {
		out = map[domain.LegKey]*domain.Booking{domain.LegA: legs[0], domain.LegB: legs[1]}
	}
	return out
}

func cloneStaff(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
